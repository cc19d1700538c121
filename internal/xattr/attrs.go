// Package xattr persists digest records in a file's extended attributes.
//
// Records live under two keys in the user namespace: the digest under
// "user.shatag.<algorithm>" and the modification time under
// "user.shatag.ts". The key scheme is compatible with the shatag family of
// tools, so tags written by any of them can be read here and vice versa.
package xattr

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/user/xtag/internal/digest"
	"github.com/user/xtag/internal/model"
)

// namespace is the attribute key prefix shared by all record attributes.
const namespace = "user.shatag."

// timestampKey is the attribute holding the recorded modification time.
const timestampKey = namespace + "ts"

// digestKey returns the attribute key holding the digest for an algorithm.
func digestKey(alg digest.Algorithm) string {
	return namespace + alg.Name()
}

// getAttr reads one attribute from the open file. Absence maps to
// model.ErrNoAttribute and missing filesystem support to model.ErrUnsupported.
func getAttr(f *os.File, key string) ([]byte, error) {
	buf := make([]byte, 256)
	for {
		n, err := unix.Fgetxattr(int(f.Fd()), key, buf)
		if err == unix.ERANGE {
			buf = make([]byte, 2*len(buf))
			continue
		}
		if err != nil {
			return nil, classify(key, err)
		}
		return buf[:n], nil
	}
}

// setAttr writes one attribute on the open file, replacing any prior value.
func setAttr(f *os.File, key string, value []byte) error {
	if err := unix.Fsetxattr(int(f.Fd()), key, value, 0); err != nil {
		return classify(key, err)
	}
	return nil
}

// removeAttr deletes one attribute from the open file.
func removeAttr(f *os.File, key string) error {
	if err := unix.Fremovexattr(int(f.Fd()), key); err != nil {
		return classify(key, err)
	}
	return nil
}

func classify(key string, err error) error {
	switch err {
	case unix.ENODATA:
		return fmt.Errorf("%s: %w", key, model.ErrNoAttribute)
	case unix.ENOTSUP:
		return model.ErrUnsupported
	default:
		return fmt.Errorf("%s: %w", key, err)
	}
}
