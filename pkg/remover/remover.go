// Package remover deletes directory trees after archiving, tolerating
// transient filesystem errors through operator-assisted retry.
package remover

import (
	"bufio"
	stderrors "errors"
	"io"
	"io/fs"
	"syscall"

	"github.com/spf13/afero"

	"github.com/arthur-debert/tarpack/pkg/errors"
	"github.com/arthur-debert/tarpack/pkg/logging"
	"github.com/arthur-debert/tarpack/pkg/style"
)

// Kind classifies a removal failure.
type Kind int

const (
	// KindNone means the removal succeeded.
	KindNone Kind = iota
	// KindNotFound means the tree is already absent; the goal state is
	// achieved, so this counts as success.
	KindNotFound
	// KindBusy means a file inside the tree is held open by another
	// process. Recoverable with operator help.
	KindBusy
	// KindPermission means access was denied. Recoverable with
	// operator help.
	KindPermission
	// KindOther covers everything else; the removal is abandoned.
	KindOther
)

// Classify maps a removal error onto its Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case stderrors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case stderrors.Is(err, syscall.EBUSY), stderrors.Is(err, syscall.ETXTBSY):
		return KindBusy
	case stderrors.Is(err, fs.ErrPermission):
		return KindPermission
	default:
		return KindOther
	}
}

// RetryPolicy decides whether another removal attempt may proceed after
// a recoverable failure. Await blocks until the next attempt is allowed
// and returns false when no further attempts should be made.
type RetryPolicy interface {
	Await(path string, kind Kind) bool
}

type interactivePolicy struct {
	in  *bufio.Reader
	out *style.Printers
}

// Interactive returns the default policy: describe the problem on out,
// then block until the operator acknowledges with a line on in. The
// line's content is discarded. There is no backoff and no bound; the
// loop relies entirely on operator action, which is fine for an
// interactive CLI but a liveness risk anywhere stdin never delivers a
// line. When in is exhausted the policy gives up instead of spinning.
func Interactive(in io.Reader, out io.Writer) RetryPolicy {
	return &interactivePolicy{
		in:  bufio.NewReader(in),
		out: style.NewPrinters(out),
	}
}

func (p *interactivePolicy) Await(path string, kind Kind) bool {
	switch kind {
	case KindBusy:
		p.out.Warning.Printfln("Directory is busy: %s", path)
		p.out.Plain.Println("Close any open files inside it and press Enter to retry.")
	case KindPermission:
		p.out.Warning.Printfln("Permission denied: %s", path)
		p.out.Plain.Println("Check your permissions (a file inside may be open) and press Enter to retry.")
	}

	_, err := p.in.ReadString('\n')
	return err == nil
}

type limitedPolicy struct {
	remaining int
}

// Limited returns a bounded policy allowing at most n retries. It is
// meant for non-interactive consumers of this package; the tarpack CLI
// itself stays interactive.
func Limited(n int) RetryPolicy {
	return &limitedPolicy{remaining: n}
}

func (p *limitedPolicy) Await(string, Kind) bool {
	if p.remaining <= 0 {
		return false
	}
	p.remaining--
	return true
}

// Supervisor deletes directory trees, retrying recoverable failures
// according to its policy.
type Supervisor struct {
	fs     afero.Fs
	policy RetryPolicy
}

// New creates a Supervisor deleting from fsys under the given policy.
func New(fsys afero.Fs, policy RetryPolicy) *Supervisor {
	return &Supervisor{fs: fsys, policy: policy}
}

// Remove deletes the directory tree at path. It loops until the tree no
// longer exists or an unrecoverable condition is met. Invoking Remove on
// an already-absent path is a no-op success. Unrecoverable failures are
// reported as ErrRemoveFailed; the caller decides whether to continue.
func (s *Supervisor) Remove(path string) error {
	logger := logging.GetLogger("remover")

	for {
		logger.Debug().Str("path", path).Msg("Attempting removal")
		err := s.fs.RemoveAll(path)

		switch kind := Classify(err); kind {
		case KindNone:
			logger.Info().Str("path", path).Msg("Removed directory")
			return nil
		case KindNotFound:
			logger.Debug().Str("path", path).Msg("Directory already absent")
			return nil
		case KindBusy, KindPermission:
			logger.Warn().Err(err).Str("path", path).Msg("Removal blocked, awaiting operator")
			if !s.policy.Await(path, kind) {
				return errors.Wrapf(err, errors.ErrRemoveFailed, "giving up on %s", path)
			}
		default:
			logger.Error().Err(err).Str("path", path).Msg("Removal failed")
			return errors.Wrapf(err, errors.ErrRemoveFailed, "cannot remove %s", path)
		}
	}
}
