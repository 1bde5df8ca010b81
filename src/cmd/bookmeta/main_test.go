package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bookmeta/src/internal/provider"
	"bookmeta/src/internal/record"
)

func TestExecuteHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	if err := execute(); err != nil {
		t.Fatalf("execute help: %v", err)
	}
}

type fakeSource struct {
	code   string
	fields []string
	recs   []record.Record
	err    error
	params map[string]string
}

func (f *fakeSource) Code() string                        { return f.code }
func (f *fakeSource) Label() string                       { return "Fake " + f.code }
func (f *fakeSource) SearchableFields() []string          { return f.fields }
func (f *fakeSource) Configure(params map[string]string) { f.params = params }

func (f *fakeSource) Search(context.Context, map[string]string) ([]record.Record, error) {
	return f.recs, f.err
}

// Helper to execute a fresh root command and capture stdout/stderr
func execCmd(t *testing.T, srcs []provider.Provider, args ...string) (string, string, error) {
	t.Helper()
	old := providers
	providers = func() []provider.Provider { return srcs }
	t.Cleanup(func() { providers = old })
	root := newRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func dune() record.Record {
	return record.NewBuilder().
		With("title", "Dune").
		With("author", "Frank Herbert").
		With("publicationDate", "1965").
		With("isbn", "9780441013593").
		With("publisher", "Chilton").
		Result()
}

func TestISBNText(t *testing.T) {
	srcs := []provider.Provider{
		&fakeSource{code: "a", fields: []string{"isbn"}, recs: []record.Record{dune(), dune()}},
		&fakeSource{code: "b", fields: []string{"isbn"}, err: errors.New("boom")},
		&fakeSource{code: "c", fields: []string{"isbn"}},
	}
	out, _, err := execCmd(t, srcs, "isbn", "9780441013593")
	if err != nil {
		t.Fatalf("isbn: %v", err)
	}
	for _, want := range []string{
		"tried: a: found (1)",
		"tried: b: failed (boom)",
		"tried: c: not found",
		"1. Dune / Frank Herbert / 1965 / ISBN 9780441013593",
		"   publisher: Chilton",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "2. ") {
		t.Fatalf("duplicate record from one source should be merged:\n%s", out)
	}
}

func TestAllSourcesFailed(t *testing.T) {
	srcs := []provider.Provider{&fakeSource{code: "a", err: errors.New("down")}}
	_, _, err := execCmd(t, srcs, "isbn", "9780441013593")
	if !errors.Is(err, errAllFailed) {
		t.Fatalf("expected errAllFailed, got %v", err)
	}
}

func TestSearchJSON(t *testing.T) {
	srcs := []provider.Provider{&fakeSource{code: "a", fields: []string{"title"}, recs: []record.Record{dune()}}}
	out, errOut, err := execCmd(t, srcs, "--format", "json", "search", "--criteria", "title=Dune", "--criteria", "author=Herbert")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var recs []record.Record
	if err := json.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("stdout is not json: %v\n%s", err, out)
	}
	if len(recs) != 1 || !record.Equal(recs[0], dune()) {
		t.Fatalf("unexpected records %+v", recs)
	}
	if !strings.Contains(errOut, "tried: a: found (1)") {
		t.Fatalf("trace should go to stderr, got %q", errOut)
	}
}

func TestSearchYAMLEmpty(t *testing.T) {
	srcs := []provider.Provider{&fakeSource{code: "a"}}
	out, _, err := execCmd(t, srcs, "--format", "yaml", "search", "--criteria", "title=Nothing")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var recs []record.Record
	if err := yaml.Unmarshal([]byte(out), &recs); err != nil || len(recs) != 0 {
		t.Fatalf("expected empty yaml list, got %q (%v)", out, err)
	}
}

func TestSearchCriteriaValidation(t *testing.T) {
	for _, args := range [][]string{
		{"search"},
		{"search", "--criteria", "title"},
		{"search", "--criteria", "=Dune"},
		{"--format", "xml", "search", "--criteria", "title=Dune"},
		{"--log-level", "loud", "search", "--criteria", "title=Dune"},
	} {
		if _, _, err := execCmd(t, nil, args...); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestParseCriteria(t *testing.T) {
	got, err := parseCriteria([]string{" Title = Dune ", "author=Frank Herbert", "title=Dune Messiah"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got["title"] != "Dune Messiah" || got["author"] != "Frank Herbert" {
		t.Fatalf("unexpected criteria %v", got)
	}
}

func TestProvidersWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmeta.yaml")
	doc := "providers:\n  b:\n    active: false\n  a:\n    parameters:\n      language: fr\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	a := &fakeSource{code: "a", fields: []string{"title", "isbn"}}
	b := &fakeSource{code: "b", fields: []string{"lccn"}}
	out, _, err := execCmd(t, []provider.Provider{a, b}, "--config", path, "providers")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got:\n%s", out)
	}
	if !strings.Contains(lines[0], "active") || !strings.Contains(lines[0], "isbn,title") {
		t.Fatalf("line a: %q", lines[0])
	}
	if !strings.Contains(lines[1], "inactive") {
		t.Fatalf("line b: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "__pool__") || !strings.HasSuffix(lines[2], "title,isbn") {
		t.Fatalf("pool line: %q", lines[2])
	}
	if a.params["language"] != "fr" {
		t.Fatalf("parameters not applied: %v", a.params)
	}
}

func TestTimeoutFlagOverridesConfig(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"--timeout", "3s", "providers"})
	var seen time.Duration
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("timeout") {
			seen = opts.timeout
		}
	}
	old := providers
	providers = func() []provider.Provider { return nil }
	t.Cleanup(func() { providers = old })
	root.SetOut(new(bytes.Buffer))
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if seen != 3*time.Second {
		t.Fatalf("timeout flag: %s", seen)
	}
}
