package board

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/slot"
)

func TestDecodeSnapshotRejectsNonObjects(t *testing.T) {
	for _, in := range []string{"", "  ", "null", "[]", "42", `"x"`} {
		if _, err := DecodeSnapshot([]byte(in)); !errors.Is(err, ErrNotObject) {
			t.Errorf("DecodeSnapshot(%q) = %v, want ErrNotObject", in, err)
		}
	}
	if _, err := DecodeSnapshot([]byte(`{"pending":`)); err == nil {
		t.Error("expected parse error for truncated object")
	}
}

func TestNormalizeReplacesNonSequences(t *testing.T) {
	raw, err := DecodeSnapshot([]byte(`{"pending":"not-a-list","doing":[{"id":"3","title":"Task 3"}],"done":null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got, report := Normalize(raw)
	if len(got.Pending) != 0 || got.Pending == nil {
		t.Errorf("pending should be an empty sequence, got %#v", got.Pending)
	}
	if len(got.Done) != 0 || got.Done == nil {
		t.Errorf("done should be an empty sequence, got %#v", got.Done)
	}
	if want := []models.Task{{ID: "3", Title: "Task 3"}}; !reflect.DeepEqual(got.Doing, want) {
		t.Errorf("doing should be preserved, got %+v", got.Doing)
	}
	if want := []models.Column{models.ColumnPending, models.ColumnDone}; !reflect.DeepEqual(report.Invalid, want) {
		t.Errorf("unexpected invalid columns: %v", report.Invalid)
	}
	if !report.Structural() || report.Clean() {
		t.Errorf("report should be structural: %+v", report)
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	got, report := Normalize(RawSnapshot{})
	if !reflect.DeepEqual(got, models.NewCollection()) {
		t.Errorf("expected empty collection, got %+v", got)
	}
	if len(report.Invalid) != 3 {
		t.Errorf("expected all columns invalid, got %v", report.Invalid)
	}
}

func TestNormalizeDropsOnlyNonObjects(t *testing.T) {
	raw, err := DecodeSnapshot([]byte(`{"pending":[1,"x",null,{"id":"a","title":"A"},{"id":5}],"doing":[],"done":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got, report := Normalize(raw)
	if pending := ids(got.Pending); !reflect.DeepEqual(pending, []string{"a", "5"}) {
		t.Errorf("unexpected pending: %v", pending)
	}
	if report.Dropped != 3 {
		t.Errorf("expected 3 dropped entries, got %d", report.Dropped)
	}
	if report.Structural() {
		t.Error("dropping entries is not a structural failure")
	}
}

func TestNormalizeKeepsDuplicateIDs(t *testing.T) {
	raw, err := DecodeSnapshot([]byte(`{"pending":[{"id":"1","title":"first"}],"doing":[{"id":"1","title":"second"},{"id":"2","title":"B"}],"done":[{"id":"2","title":"again"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got, report := Normalize(raw)
	if got.Len() != 4 {
		t.Fatalf("expected every record kept, got %+v", got)
	}
	if doing := ids(got.Doing); !reflect.DeepEqual(doing, []string{"1", "2"}) {
		t.Errorf("unexpected doing: %v", doing)
	}
	if got.Done[0].Title != "again" {
		t.Errorf("unexpected done: %+v", got.Done)
	}
	if !reflect.DeepEqual(report.Duplicates, []string{"1", "2"}) {
		t.Errorf("unexpected duplicates: %v", report.Duplicates)
	}
	if report.Clean() {
		t.Error("duplicates should be reported")
	}
}

func TestNormalizeKeepsLooselyTypedRecords(t *testing.T) {
	raw, err := DecodeSnapshot([]byte(`{"pending":[{"id":1700000000000,"title":"B"},{"id":"x","title":null,"dueDate":1700000000000}],"doing":[],"done":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got, report := Normalize(raw)
	if !report.Clean() {
		t.Errorf("loosely typed records need no repair: %+v", report)
	}
	if pending := ids(got.Pending); !reflect.DeepEqual(pending, []string{"1700000000000", "x"}) {
		t.Fatalf("unexpected pending: %v", pending)
	}
	if due, ok := got.Pending[1].Due(); !ok || due.Year() != 2023 {
		t.Errorf("numeric due date should parse as epoch millis, got %v %v", due, ok)
	}

	data, err := EncodeSnapshot(got)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"pending":[{"id":1700000000000,"title":"B"},{"id":"x","title":null,"dueDate":1700000000000}],"doing":[],"done":[]}`
	if string(data) != want {
		t.Errorf("stored values should round-trip:\n got %s\nwant %s", data, want)
	}
}

func TestMoveAfterReloadKeepsEveryRecord(t *testing.T) {
	stored := `{"pending":[{"id":"1"},{"id":1700000000000,"title":"B"},{"id":"x","title":"C","dueDate":1700000000000},{"id":"y","title":"D","tags":["keep"]}],"doing":[],"done":[]}`
	mem := slot.NewMemory([]byte(stored))
	st, hook := openTestStore(t, mem, Options{})
	if warnings(hook) != 0 {
		t.Fatalf("expected a clean load, got %d warnings", warnings(hook))
	}

	if !st.MoveTask(context.Background(), "1700000000000", models.ColumnPending, models.ColumnDone) {
		t.Fatal("numeric id should be movable")
	}

	data, err := mem.Read(context.Background())
	if err != nil {
		t.Fatalf("read slot: %v", err)
	}
	want := `{"pending":[{"id":"1"},{"id":"x","title":"C","dueDate":1700000000000},{"id":"y","title":"D","tags":["keep"]}],"doing":[],"done":[{"id":1700000000000,"title":"B"}]}`
	if string(data) != want {
		t.Errorf("persisted snapshot lost data:\n got %s\nwant %s", data, want)
	}

	reopened, _ := openTestStore(t, mem, Options{})
	if reopened.Collection().Len() != 4 {
		t.Errorf("expected 4 tasks after reopen, got %+v", reopened.Collection())
	}
	if tags, ok := reopened.Collection().Pending[2].Extra("tags"); !ok || string(tags) != `["keep"]` {
		t.Errorf("unknown field lost: %s %v", tags, ok)
	}
}

func TestEncodeSnapshotShape(t *testing.T) {
	data, err := EncodeSnapshot(models.Collection{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `{"pending":[],"doing":[],"done":[]}` {
		t.Errorf("unexpected encoding: %s", data)
	}

	data, err = EncodeSnapshot(models.Collection{Doing: []models.Task{{ID: "7", Title: "T", Priority: "Low", DueDate: "2024-02-29"}}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"pending":[],"doing":[{"id":"7","title":"T","priority":"Low","dueDate":"2024-02-29"}],"done":[]}`
	if string(data) != want {
		t.Errorf("unexpected encoding:\n got %s\nwant %s", data, want)
	}
}
