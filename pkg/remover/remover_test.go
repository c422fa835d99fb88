package remover

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/tarpack/pkg/errors"
)

// scriptedFs returns one scripted error per RemoveAll call, then
// delegates to the wrapped filesystem once the script is exhausted.
type scriptedFs struct {
	afero.Fs
	script []error
	calls  int
}

func (s *scriptedFs) RemoveAll(path string) error {
	s.calls++
	if len(s.script) > 0 {
		err := s.script[0]
		s.script = s.script[1:]
		if err != nil {
			return err
		}
		return s.Fs.RemoveAll(path)
	}
	return s.Fs.RemoveAll(path)
}

func pathError(path string, err error) error {
	return &os.PathError{Op: "removeall", Path: path, Err: err}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil error", nil, KindNone},
		{"not found", pathError("/x", fs.ErrNotExist), KindNotFound},
		{"busy", pathError("/x", syscall.EBUSY), KindBusy},
		{"text file busy", pathError("/x", syscall.ETXTBSY), KindBusy},
		{"permission denied", pathError("/x", fs.ErrPermission), KindPermission},
		{"anything else", stderrors.New("disk exploded"), KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestRemoveSucceeds(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/target/a", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/target/a/f.txt", []byte("x"), 0644))

	sup := New(fsys, Limited(0))
	require.NoError(t, sup.Remove("/target/a"))

	exists, err := afero.DirExists(fsys, "/target/a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRemoveAbsentPathIsNoOpSuccess(t *testing.T) {
	fsys := &scriptedFs{Fs: afero.NewMemMapFs(), script: []error{pathError("/gone", fs.ErrNotExist)}}

	sup := New(fsys, Limited(0))
	assert.NoError(t, sup.Remove("/gone"))
	assert.Equal(t, 1, fsys.calls)
}

func TestRemoveRetriesBusyAfterAcknowledgment(t *testing.T) {
	fsys := &scriptedFs{
		Fs:     afero.NewMemMapFs(),
		script: []error{pathError("/target/a", syscall.EBUSY), nil},
	}
	require.NoError(t, fsys.Fs.MkdirAll("/target/a", 0755))

	var out bytes.Buffer
	sup := New(fsys, Interactive(strings.NewReader("\n"), &out))

	require.NoError(t, sup.Remove("/target/a"))
	assert.Equal(t, 2, fsys.calls)
	assert.Contains(t, out.String(), "Directory is busy: /target/a")
	assert.Contains(t, out.String(), "press Enter to retry")
}

func TestRemoveRetriesPermissionDenied(t *testing.T) {
	fsys := &scriptedFs{
		Fs:     afero.NewMemMapFs(),
		script: []error{pathError("/target/a", fs.ErrPermission), nil},
	}
	require.NoError(t, fsys.Fs.MkdirAll("/target/a", 0755))

	var out bytes.Buffer
	sup := New(fsys, Interactive(strings.NewReader("anything, content is discarded\n"), &out))

	require.NoError(t, sup.Remove("/target/a"))
	assert.Equal(t, 2, fsys.calls)
	assert.Contains(t, out.String(), "Permission denied: /target/a")
}

func TestRemoveGivesUpWhenInputExhausted(t *testing.T) {
	fsys := &scriptedFs{
		Fs:     afero.NewMemMapFs(),
		script: []error{pathError("/target/a", syscall.EBUSY), pathError("/target/a", syscall.EBUSY)},
	}
	require.NoError(t, fsys.Fs.MkdirAll("/target/a", 0755))

	var out bytes.Buffer
	sup := New(fsys, Interactive(strings.NewReader(""), &out))

	err := sup.Remove("/target/a")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoveFailed))
}

func TestRemoveLimitedPolicyBounds(t *testing.T) {
	fsys := &scriptedFs{
		Fs: afero.NewMemMapFs(),
		script: []error{
			pathError("/target/a", syscall.EBUSY),
			pathError("/target/a", syscall.EBUSY),
			pathError("/target/a", syscall.EBUSY),
		},
	}
	require.NoError(t, fsys.Fs.MkdirAll("/target/a", 0755))

	err := New(fsys, Limited(2)).Remove("/target/a")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoveFailed))
	assert.Equal(t, 3, fsys.calls, "initial attempt plus two retries")
}

func TestRemoveLimitedPolicyEventuallySucceeds(t *testing.T) {
	fsys := &scriptedFs{
		Fs:     afero.NewMemMapFs(),
		script: []error{pathError("/target/a", syscall.EBUSY), nil},
	}
	require.NoError(t, fsys.Fs.MkdirAll("/target/a", 0755))

	require.NoError(t, New(fsys, Limited(5)).Remove("/target/a"))
	assert.Equal(t, 2, fsys.calls)
}

func TestRemoveAbandonsOnOtherErrors(t *testing.T) {
	fsys := &scriptedFs{
		Fs:     afero.NewMemMapFs(),
		script: []error{stderrors.New("input/output error")},
	}

	err := New(fsys, Limited(10)).Remove("/target/a")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRemoveFailed))
	assert.Equal(t, 1, fsys.calls, "other errors are not retried")
}
