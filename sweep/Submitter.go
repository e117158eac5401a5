package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"gopkg.in/yaml.v3"
)

// Submitter hands experiments to an experiment-running service
type Submitter interface {
	Submit(ctx context.Context, experiments []Experiment) error
}

// IndexFile is the name of the file FileSubmitter lists experiments in
const IndexFile = "index.yaml"

// FileSubmitter writes the parameters of each experiment to their own
// YAML file in Dir, named <name>-<index>.yaml, and lists the experiments
// in Dir/IndexFile. Each file is an option file that the experiment's
// script loads with -config.
type FileSubmitter struct {
	Dir string
}

// IndexEntry is a single experiment listed in the index file
type IndexEntry struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Project string   `yaml:"project"`
	Script  string   `yaml:"script"`
	Tags    []string `yaml:"tags"`
	File    string   `yaml:"file"`
}

// Submit implements the Submitter interface
func (f FileSubmitter) Submit(ctx context.Context,
	experiments []Experiment) error {
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	index := make([]IndexEntry, 0, len(experiments))
	for i, exp := range experiments {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("submit: %w", err)
		}

		data, err := yaml.Marshal(exp.Params)
		if err != nil {
			return fmt.Errorf("submit: could not encode experiment %v: %w",
				exp.ID, err)
		}

		file := fmt.Sprintf("%v-%v.yaml", exp.Name, i)
		if err := os.WriteFile(filepath.Join(f.Dir, file), data,
			0o644); err != nil {
			return fmt.Errorf("submit: %w", err)
		}
		index = append(index, IndexEntry{
			ID:      exp.ID,
			Name:    exp.Name,
			Project: exp.Project,
			Script:  exp.Script,
			Tags:    exp.Tags,
			File:    file,
		})
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return fmt.Errorf("submit: could not encode index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.Dir, IndexFile), data,
		0o644); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}

// DefaultSubjectPrefix is the subject prefix NATSSubmitter uses if none
// is given
const DefaultSubjectPrefix = "clworld.sweep"

// flushTimeout bounds a flush when the caller sets no deadline
const flushTimeout = 30 * time.Second

// publisher is the part of a NATS connection NATSSubmitter uses
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSSubmitter publishes each experiment as JSON on a NATS server, to
// the subject <prefix>.<project>
type NATSSubmitter struct {
	conn   publisher
	prefix string
}

// NewNATSSubmitter connects to the NATS server at url
func NewNATSSubmitter(url, prefix string) (*NATSSubmitter, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url,
		nats.Name("clsweep"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("newNATSSubmitter: connect to NATS: %w", err)
	}
	return newNATSSubmitter(conn, prefix), nil
}

func newNATSSubmitter(conn publisher, prefix string) *NATSSubmitter {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSSubmitter{conn: conn, prefix: prefix}
}

// Subject returns the subject experiments of project are published to.
// Project names of the form owner/name become the tokens owner.name.
func (n *NATSSubmitter) Subject(project string) string {
	project = strings.NewReplacer("/", ".", " ", "_").Replace(project)
	if project == "" {
		return n.prefix
	}
	return n.prefix + "." + project
}

// Submit implements the Submitter interface. Submit returns once the
// server has received every experiment.
func (n *NATSSubmitter) Submit(ctx context.Context,
	experiments []Experiment) error {
	for _, exp := range experiments {
		data, err := json.Marshal(exp)
		if err != nil {
			return fmt.Errorf("submit: could not encode experiment %v: %w",
				exp.ID, err)
		}
		if err := n.conn.Publish(n.Subject(exp.Project), data); err != nil {
			return fmt.Errorf("submit: publish experiment %v: %w", exp.ID, err)
		}
	}

	// Flushing requires a deadline
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("submit: flush: %w", err)
	}
	return nil
}

// Close closes the connection to the NATS server
func (n *NATSSubmitter) Close() error {
	n.conn.Close()
	return nil
}
