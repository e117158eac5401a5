package sweep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/clworld/config"
	"github.com/samuelfneumann/clworld/experiment"
	"gopkg.in/yaml.v3"
)

func testExperiments() []Experiment {
	return []Experiment{
		{ID: "01", Name: "small", Project: "owner/project", Script: "clrun",
			Params: map[string]interface{}{"seed": 0}},
		{ID: "02", Name: "small", Project: "owner/project", Script: "clrun",
			Params: map[string]interface{}{"seed": 1}},
	}
}

func TestFileSubmitter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sweep")
	s := FileSubmitter{Dir: dir}
	if err := s.Submit(context.Background(), testExperiments()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		t.Fatal(err)
	}
	var index []IndexEntry
	if err := yaml.Unmarshal(data, &index); err != nil {
		t.Fatal(err)
	}
	if len(index) != 2 || index[1].ID != "02" || index[1].File != "small-1.yaml" {
		t.Fatalf("index: %+v", index)
	}
	if index[1].Project != "owner/project" || index[1].Script != "clrun" {
		t.Errorf("index metadata: %+v", index[1])
	}

	data, err = os.ReadFile(filepath.Join(dir, index[1].File))
	if err != nil {
		t.Fatal(err)
	}
	params := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &params); err != nil {
		t.Fatal(err)
	}
	if len(params) != 1 || params["seed"] != 1 {
		t.Errorf("experiment file should hold only the parameters, got %v",
			params)
	}
}

func TestFileSubmitterLaunchable(t *testing.T) {
	experiments, err := Build(smallDefinition())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if err := (FileSubmitter{Dir: dir}).Submit(context.Background(),
		experiments); err != nil {
		t.Fatal(err)
	}

	for i, exp := range experiments {
		path := filepath.Join(dir, fmt.Sprintf("%v-%v.yaml", exp.Name, i))
		c, err := config.Load(path)
		if err != nil {
			t.Fatalf("experiment %v: %v", i, err)
		}
		if c.RunID != exp.ID {
			t.Errorf("experiment %v: run id \n\twant(%v) \n\thave(%v)", i,
				exp.ID, c.RunID)
		}
		if c.Seed != int64(i) {
			t.Errorf("experiment %v: seed %v", i, c.Seed)
		}

		spec, err := experiment.Build(c, c.RunID)
		if err != nil {
			t.Fatalf("experiment %v: %v", i, err)
		}
		if spec.Steps != 200 || spec.RunID != exp.ID {
			t.Errorf("experiment %v: steps %v, run id %v", i, spec.Steps,
				spec.RunID)
		}
	}
}

func TestFileSubmitterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := FileSubmitter{Dir: t.TempDir()}
	if err := s.Submit(ctx, testExperiments()); !errors.Is(err,
		context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// message is a single message published to a fakeConn
type message struct {
	subject string
	data    []byte
}

// fakeConn records published messages in place of a NATS connection
type fakeConn struct {
	published []message
	flushed   bool
	closed    bool
	flushErr  error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.published = append(f.published, message{subject, data})
	return nil
}

func (f *fakeConn) FlushWithContext(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	f.flushed = true
	return f.flushErr
}

func (f *fakeConn) Close() { f.closed = true }

func TestNATSSubmitter(t *testing.T) {
	conn := &fakeConn{}
	s := newNATSSubmitter(conn, "")
	if err := s.Submit(context.Background(), testExperiments()); err != nil {
		t.Fatal(err)
	}

	if len(conn.published) != 2 || !conn.flushed {
		t.Fatalf("published %v messages, flushed %v", len(conn.published),
			conn.flushed)
	}
	want := DefaultSubjectPrefix + ".owner.project"
	for _, msg := range conn.published {
		if msg.subject != want {
			t.Errorf("subject: \n\twant(%v) \n\thave(%v)", want, msg.subject)
		}
	}

	var exp Experiment
	if err := json.Unmarshal(conn.published[1].data, &exp); err != nil {
		t.Fatal(err)
	}
	if exp.ID != "02" {
		t.Errorf("published experiment: %+v", exp)
	}

	s.Close()
	if !conn.closed {
		t.Error("connection should be closed")
	}
}

func TestNATSSubmitterFlushError(t *testing.T) {
	conn := &fakeConn{flushErr: errors.New("timeout")}
	s := newNATSSubmitter(conn, "sweeps")
	if err := s.Submit(context.Background(), testExperiments()); err == nil {
		t.Error("expected flush error")
	}
	if got := s.Subject(""); got != "sweeps" {
		t.Errorf("subject: \n\twant(sweeps) \n\thave(%v)", got)
	}
}
