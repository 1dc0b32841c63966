package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-roster/internal/config"
	"github.com/stemsi/student-roster/internal/model"
	"github.com/stemsi/student-roster/internal/repository"
	"github.com/stemsi/student-roster/internal/roster"
	"github.com/stemsi/student-roster/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	store    *repository.MemoryStore
	stdin    string
	terminal bool
}

func newHarness() *harness {
	return &harness{store: repository.NewMemoryStore()}
}

func (h *harness) app() *app {
	a := &app{
		cfg:        &config.Config{StoreDriver: config.StoreMemory, StoreKey: "students"},
		log:        zerolog.Nop(),
		stdin:      strings.NewReader(h.stdin),
		isTerminal: func() bool { return h.terminal },
	}
	a.open = func(ctx context.Context) (*service.RosterService, func(), error) {
		svc := service.NewRosterService(repository.NewRosterRepository(h.store, "students"), nil, zerolog.Nop(), a.serviceOptions()...)
		_ = svc.Load(ctx)
		return svc, func() {}, nil
	}
	return a
}

func (h *harness) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(h.app())
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (h *harness) stored(t *testing.T) []model.Student {
	t.Helper()
	got, err := repository.NewRosterRepository(h.store, "students").Load(context.Background())
	require.NoError(t, err)
	return got
}

func TestAddAndList(t *testing.T) {
	h := newHarness()

	out, _, err := h.run(t, "add", "--name", "Jane Doe", "--age", "20", "--marks", "50,60,70,80,90")
	require.NoError(t, err)
	assert.Equal(t, "Added #0 Jane Doe: 70.00% First\n", out)

	_, _, err = h.run(t, "add", "--name", "Bob", "--age", "22", "--marks", "30,30,30,30,30.5")
	require.NoError(t, err)

	out, _, err = h.run(t, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"#", "NAME", "AGE", "M1", "M2", "M3", "M4", "M5", "%", "DIVISION"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"0", "Jane", "Doe", "20", "50", "60", "70", "80", "90", "70.00", "First"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"1", "Bob", "22", "30", "30", "30", "30", "30.5", "30.10", "Fail"}, strings.Fields(lines[2]))

	out, _, err = h.run(t, "list", "--division", "Fail")
	require.NoError(t, err)
	assert.NotContains(t, out, "Jane")
	assert.Contains(t, out, "Bob")

	out, _, err = h.run(t, "list", "--name", "zed")
	require.NoError(t, err)
	assert.Equal(t, "No students found.\n", out)

	_, _, err = h.run(t, "list", "--division", "Distinction")
	assert.ErrorContains(t, err, "unknown division")
}

func TestAdd_ValidationError(t *testing.T) {
	h := newHarness()

	_, _, err := h.run(t, "add", "--name", "John3", "--age", "20", "--marks", "1,2,3,4,5")
	require.Error(t, err)
	assert.Equal(t, "name: Name must contain only letters.", err.Error())

	_, _, err = h.run(t, "add", "--name", "John", "--age", "20", "--marks", "1,2,3")
	assert.ErrorContains(t, err, "marks[3]: Marks must be numbers between 0 and 100.")

	_, _, err = h.run(t, "add", "--name", "John", "--age", "20", "--marks", "1,2,3,4,5,6")
	assert.ErrorContains(t, err, "expected 5 marks")

	assert.Empty(t, h.stored(t))
}

func TestEdit_KeepsUnsetFields(t *testing.T) {
	h := newHarness()
	_, _, err := h.run(t, "add", "--name", "Jane Doe", "--age", "20", "--marks", "50,60,70,80,90")
	require.NoError(t, err)

	out, _, err := h.run(t, "edit", "0", "--marks", "40,40,40,40,40")
	require.NoError(t, err)
	assert.Equal(t, "Updated #0 Jane Doe: 40.00% Third\n", out)

	got := h.stored(t)
	require.Len(t, got, 1)
	assert.Equal(t, 20, got[0].Age)
	assert.Equal(t, model.Marks{40, 40, 40, 40, 40}, got[0].Marks)

	_, _, err = h.run(t, "edit", "3", "--age", "30")
	assert.ErrorContains(t, err, "no record #3: valid positions are 0 to 0")

	_, _, err = h.run(t, "edit", "x")
	assert.ErrorContains(t, err, "whole number")
}

func TestDelete_Confirmation(t *testing.T) {
	h := newHarness()
	for _, name := range []string{"Ann", "Bea", "Cid"} {
		_, _, err := h.run(t, "add", "--name", name, "--age", "20", "--marks", "50,50,50,50,50")
		require.NoError(t, err)
	}

	// Not a terminal and no --yes: refuse.
	_, _, err := h.run(t, "delete", "1")
	assert.ErrorContains(t, err, "--yes")
	assert.Len(t, h.stored(t), 3)

	// Terminal, answer no.
	h.terminal, h.stdin = true, "n\n"
	out, _, err := h.run(t, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, deletePrompt)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, h.stored(t), 3)

	// Terminal, answer yes.
	h.stdin = "yes\n"
	out, _, err = h.run(t, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted #1 Bea")

	// --yes skips the prompt.
	h.terminal, h.stdin = false, ""
	out, _, err = h.run(t, "delete", "0", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "Deleted #0 Ann\n", out)

	got := h.stored(t)
	require.Len(t, got, 1)
	assert.Equal(t, "Cid", got[0].Name)

	_, _, err = h.run(t, "delete", "5", "-y")
	assert.ErrorContains(t, err, "no record #5: valid positions are 0 to 0")
}

func TestDescribe(t *testing.T) {
	err := describe(&roster.IndexOutOfRangeError{Index: 0, Len: 0})
	assert.EqualError(t, err, "no record #0: the roster is empty")

	err = describe(&roster.ValidationError{Field: roster.FieldAge, Message: roster.MsgAgeInvalid})
	assert.EqualError(t, err, "age: Valid age is required.")

	err = describe(fmt.Errorf("%w: bad json", service.ErrDegraded))
	assert.ErrorContains(t, err, "use --force")
}

func TestValidate(t *testing.T) {
	h := newHarness()

	out, _, err := h.run(t, "validate", "--name", "Jane Doe", "--age", "20", "--marks", "50,60,70,80,90")
	require.NoError(t, err)
	assert.Equal(t, "OK: 70.00% First\n", out)

	_, _, err = h.run(t, "validate", "--name", "Jane", "--age", "-1", "--marks", "50,60,70,80,90")
	assert.EqualError(t, err, "age: Valid age is required.")

	assert.Empty(t, h.stored(t))
}

func TestDegradedLoad(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.store.Put(context.Background(), "students", []byte(`{broken`)))

	out, errOut, err := h.run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "No students found.\n", out)
	assert.Contains(t, errOut, "warning: load roster")

	_, _, err = h.run(t, "add", "--name", "Jane", "--age", "20", "--marks", "1,2,3,4,5")
	assert.ErrorContains(t, err, "--force")

	// Refused before the prompt or the position check.
	h.terminal, h.stdin = true, "y\n"
	out, _, err = h.run(t, "delete", "0")
	assert.ErrorContains(t, err, "--force")
	assert.NotContains(t, out, deletePrompt)
	_, _, err = h.run(t, "edit", "0", "--age", "30")
	assert.ErrorContains(t, err, "--force")
	h.terminal, h.stdin = false, ""

	// Validation never writes, so it still works.
	out, _, err = h.run(t, "validate", "--name", "Jane", "--age", "20", "--marks", "50,60,70,80,90")
	require.NoError(t, err)
	assert.Equal(t, "OK: 70.00% First\n", out)

	raw, err := h.store.Get(context.Background(), "students")
	require.NoError(t, err)
	assert.Equal(t, `{broken`, string(raw))

	_, _, err = h.run(t, "add", "--force", "--name", "Jane", "--age", "20", "--marks", "1,2,3,4,5")
	require.NoError(t, err)
	assert.Len(t, h.stored(t), 1)
}
