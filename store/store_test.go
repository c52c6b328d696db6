package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	payload := []byte(`{"metadata":{"quiz_type":"MCQ"}}`)
	images := map[string][]byte{"q1_img_001.png": {1, 2, 3}}

	id, err := s.Save(ctx, "geo.docx", "MCQ", 3, payload, images)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Name != "geo.docx" || rec.QuizType != "MCQ" || rec.QuestionCount != 3 {
		t.Errorf("Record = %+v", rec)
	}
	if !bytes.Equal(rec.Payload, payload) {
		t.Errorf("Payload = %s", rec.Payload)
	}
	if rec.CreatedAt == "" {
		t.Error("CreatedAt not set")
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestImages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	images := map[string][]byte{
		"q1_img_001.png": {1},
		"q2_img_001.jpg": {2, 2},
	}
	id, err := s.Save(ctx, "quiz", "MCQ", 2, []byte("{}"), images)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.GetImages(ctx, id)
	if err != nil {
		t.Fatalf("GetImages: %v", err)
	}
	if len(got) != 2 || !bytes.Equal(got["q2_img_001.jpg"], []byte{2, 2}) {
		t.Errorf("images = %v", got)
	}

	one, err := s.GetImage(ctx, id, "q1_img_001.png")
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if !bytes.Equal(one, []byte{1}) {
		t.Errorf("image = %v", one)
	}

	if _, err := s.GetImage(ctx, id, "missing.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestImagesEmptyForQuizWithoutAny(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, err := s.Save(ctx, "essay", "ESSAY", 1, []byte("{}"), nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.GetImages(ctx, id)
	if err != nil {
		t.Fatalf("GetImages: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("images = %v", got)
	}
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b"} {
		if _, err := s.Save(ctx, name, "MCQ", 1, []byte("{}"), nil); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	recs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	for _, rec := range recs {
		if len(rec.Payload) != 0 {
			t.Errorf("List leaked payload for %s", rec.ID)
		}
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "gone", "MCQ", 1, []byte("{}"), map[string][]byte{"x.png": {1}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v", err)
	}
	// Images go with the quiz.
	images, err := s.GetImages(ctx, id)
	if err != nil {
		t.Fatalf("GetImages: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("orphaned images: %v", images)
	}

	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: %v", err)
	}
}
