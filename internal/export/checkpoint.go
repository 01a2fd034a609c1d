package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/flontology/flont/internal/domain"
)

const (
	phaseLiterals    = "literals"
	phaseEntries     = "entries"
	phaseSenses      = "senses"
	phaseInflections = "inflections"
	phaseRelations   = "relations"
)

var phaseOrder = map[string]int{
	"":               0,
	phaseLiterals:    1,
	phaseEntries:     2,
	phaseSenses:      3,
	phaseInflections: 4,
	phaseRelations:   5,
}

// checkpoint records how far an export got: the current phase, the keyset
// cursor of the last fully written page, the byte offset of the output and
// the triple count. It is rewritten after every page, so a crashed export
// loses at most one page of work.
type checkpoint struct {
	Phase   string   `json:"phase"`
	Cursor  []string `json:"cursor,omitempty"`
	Offset  int64    `json:"offset"`
	Triples int64    `json:"triples"`

	path string
	out  *output
}

func (cp *checkpoint) passed(phase string) bool {
	return phaseOrder[cp.Phase] > phaseOrder[phase]
}

func (cp *checkpoint) enter(phase string) {
	if cp.Phase != phase {
		cp.Phase = phase
		cp.Cursor = nil
	}
}

// key returns the single-key cursor for literal, entry and sense phases.
func (cp *checkpoint) key() string {
	if len(cp.Cursor) == 1 {
		return cp.Cursor[0]
	}
	return ""
}

func (cp *checkpoint) inflectionCursor() domain.InflectionForm {
	if len(cp.Cursor) != 3 {
		return domain.InflectionForm{}
	}
	return domain.InflectionForm{
		EntryKey:  cp.Cursor[0],
		Feature:   domain.InflectionFeature(cp.Cursor[1]),
		TargetKey: cp.Cursor[2],
	}
}

func (cp *checkpoint) relationCursor() domain.Relation {
	if len(cp.Cursor) != 3 {
		return domain.Relation{}
	}
	return domain.Relation{
		SourceKey: cp.Cursor[0],
		Kind:      domain.RelationKind(cp.Cursor[1]),
		TargetKey: cp.Cursor[2],
	}
}

// advance flushes the output, records the new cursor and persists the
// checkpoint atomically.
func (cp *checkpoint) advance(cursor []string, triples int64) error {
	offset, err := cp.out.flushOffset()
	if err != nil {
		return fmt.Errorf("flush export output: %w", err)
	}

	cp.Cursor = cursor
	cp.Offset = offset
	cp.Triples = triples

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	tmp := cp.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, cp.path); err != nil {
		return fmt.Errorf("replace checkpoint: %w", err)
	}
	return nil
}

// output is the export file plus its buffered writer.
type output struct {
	f      *os.File
	bw     *bufio.Writer
	cpPath string
}

func (o *output) Writer() io.Writer {
	return o.bw
}

func (o *output) flushOffset() (int64, error) {
	if err := o.bw.Flush(); err != nil {
		return 0, err
	}
	return o.f.Seek(0, io.SeekCurrent)
}

// Finish flushes and closes the output and drops the checkpoint.
func (o *output) Finish() error {
	if err := o.bw.Flush(); err != nil {
		return fmt.Errorf("flush export output: %w", err)
	}
	if err := o.f.Close(); err != nil {
		return fmt.Errorf("close export output: %w", err)
	}
	o.f = nil
	if err := os.Remove(o.cpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove checkpoint: %w", err)
	}
	return nil
}

func (o *output) Close() error {
	if o.f == nil {
		return nil
	}
	return o.f.Close()
}

// openResumable opens the export target. A readable checkpoint next to the
// file resumes the previous run: the output is truncated back to the last
// flushed offset and the scan continues from the recorded cursor. Anything
// else starts a fresh export.
func openResumable(path string) (*checkpoint, *output, error) {
	cpPath := path + ".checkpoint"
	cp := &checkpoint{path: cpPath}

	data, err := os.ReadFile(cpPath)
	resuming := err == nil && json.Unmarshal(data, cp) == nil

	var f *os.File
	if resuming {
		f, err = os.OpenFile(path, os.O_WRONLY, 0o644)
		if err == nil {
			if err = f.Truncate(cp.Offset); err == nil {
				_, err = f.Seek(cp.Offset, io.SeekStart)
			}
		}
		if err != nil {
			if f != nil {
				f.Close()
			}
			return nil, nil, fmt.Errorf("resume export %s: %w", path, err)
		}
	} else {
		*cp = checkpoint{path: cpPath}
		f, err = os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("create export %s: %w", path, err)
		}
	}

	out := &output{f: f, bw: bufio.NewWriterSize(f, 1<<20), cpPath: cpPath}
	cp.out = out
	return cp, out, nil
}
