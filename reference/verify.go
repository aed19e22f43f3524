package reference

import (
	"errors"
	"fmt"

	"github.com/sarchlab/vmsim/config"
	"github.com/sarchlab/vmsim/controller"
	"github.com/sarchlab/vmsim/paging"
)

// ErrMismatch is matched by every Mismatch through errors.Is.
var ErrMismatch = errors.New("engine and reference model disagree")

// Mismatch records the first reference where the engine and the model
// disagree. Step is zero-based. Final is set when every access agreed but
// the resulting frame contents differ.
type Mismatch struct {
	Step      int
	PageID    int
	Engine    paging.AccessResult
	Reference paging.AccessResult
	Final     bool
	Detail    string
}

func (m *Mismatch) Error() string {
	if m.Final {
		return fmt.Sprintf("%v after the last step: %s", ErrMismatch, m.Detail)
	}
	return fmt.Sprintf("%v at step %d (page %d): %s",
		ErrMismatch, m.Step+1, m.PageID, m.Detail)
}

// Unwrap lets errors.Is match ErrMismatch.
func (m *Mismatch) Unwrap() error {
	return ErrMismatch
}

// Verify replays v through a fresh engine and through the reference model,
// comparing every access and the final frame contents. Pages the model
// cannot address at pageSize fail with ErrUnaddressable before any replay.
func Verify(v config.Validated, pageSize uint64) error {
	engine := paging.NewEngine()
	ctrl := controller.New(engine)
	if err := ctrl.Reset(v); err != nil {
		return err
	}

	model, err := NewModel(v.FrameCount, pageSize)
	if err != nil {
		return err
	}
	for i, pageID := range v.Sequence {
		if !model.Addressable(pageID) {
			return fmt.Errorf("step %d: %w: page %d with %d-byte pages",
				i+1, ErrUnaddressable, pageID, model.PageSize())
		}
	}

	for {
		outcome, err := ctrl.Step()
		if err != nil {
			return err
		}
		if outcome.Finished {
			break
		}

		want, err := model.Access(outcome.PageID)
		if err != nil {
			return fmt.Errorf("step %d: %w", outcome.Index+1, err)
		}
		if outcome.Result != want {
			return &Mismatch{
				Step:      outcome.Index,
				PageID:    outcome.PageID,
				Engine:    outcome.Result,
				Reference: want,
				Detail:    describe(outcome.Result, want),
			}
		}

		if err := engine.CheckInvariants(); err != nil {
			return fmt.Errorf("step %d: %w", outcome.Index+1, err)
		}
	}

	engineFrames := engine.Snapshot().Frames
	modelFrames := model.Frames()
	for i := range engineFrames {
		if engineFrames[i] != modelFrames[i] {
			return &Mismatch{
				Step:   ctrl.Len(),
				Final:  true,
				Detail: fmt.Sprintf("frame %d holds %v, reference holds %v", i, engineFrames[i], modelFrames[i]),
			}
		}
	}

	return nil
}

func describe(got, want paging.AccessResult) string {
	switch {
	case got.Hit != want.Hit:
		return fmt.Sprintf("hit=%v, reference hit=%v", got.Hit, want.Hit)
	case got.Frame != want.Frame:
		return fmt.Sprintf("frame %d, reference frame %d", got.Frame, want.Frame)
	default:
		return fmt.Sprintf("evicted %v, reference evicted %v", victimText(got), victimText(want))
	}
}

func victimText(r paging.AccessResult) string {
	if page, ok := r.Victim(); ok {
		return fmt.Sprintf("page %d", page)
	}
	return "nothing"
}
