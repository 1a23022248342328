package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/describo/describo-backend/internal/domain"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

type fakeDescriptionRepo struct {
	created []domain.Description
	err     error
}

func (f *fakeDescriptionRepo) Create(ctx context.Context, description *domain.Description) (*domain.Description, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := *description
	stored.ID = uuid.New()
	f.created = append(f.created, stored)
	clone := stored
	return &clone, nil
}

func (f *fakeDescriptionRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Description, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Description
	for i := len(f.created) - 1; i >= 0 && len(out) < limit; i-- {
		if f.created[i].AccountID != nil && *f.created[i].AccountID == accountID {
			out = append(out, f.created[i])
		}
	}
	return out, nil
}

type fakeObjectStorage struct {
	bucket     string
	objectName string
	mimeType   string
	size       int64
	err        error
}

func (f *fakeObjectStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.bucket = bucket
	f.objectName = objectName
	f.mimeType = contentType
	f.size = size
	return "https://cdn.example.com/" + bucket + "/" + objectName, nil
}

type fakeGenerator struct {
	text       string
	err        error
	lastPrompt string
	lastImage  []byte
	lastMime   string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.text, f.err
}

func (f *fakeGenerator) GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	f.lastPrompt = prompt
	f.lastImage = image
	f.lastMime = mimeType
	return f.text, f.err
}

func testAccount() *domain.Account {
	email := "foo@example.com"
	return &domain.Account{ID: uuid.New(), Email: &email}
}

func TestGenerateFromText(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDescriptionRepo{}
	gen := &fakeGenerator{text: "**Great** mugs for *great* mornings"}
	svc := NewContentService(repo, nil, gen, zerolog.Nop(), "images")
	account := testAccount()

	description, err := svc.GenerateFromText(ctx, account, "handmade ceramic mug", "professional")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if description.Content != "Great mugs for great mornings" {
		t.Fatalf("expected markdown emphasis stripped, got %q", description.Content)
	}
	if description.Source != domain.DescriptionSourceText {
		t.Fatalf("unexpected source %q", description.Source)
	}
	if description.Style != "professional" {
		t.Fatalf("unexpected style %q", description.Style)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected description to be stored, got %d", len(repo.created))
	}
	if !strings.Contains(gen.lastPrompt, "handmade ceramic mug") {
		t.Fatal("expected product info to reach the generator prompt")
	}
}

func TestGenerateFromTextAnonymousNotStored(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDescriptionRepo{}
	svc := NewContentService(repo, nil, &fakeGenerator{text: "copy"}, zerolog.Nop(), "images")

	description, err := svc.GenerateFromText(ctx, nil, "handmade ceramic mug", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if description.AccountID != nil {
		t.Fatal("expected anonymous description to carry no account")
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected anonymous description not to be stored, got %d", len(repo.created))
	}
}

func TestGenerateFromTextValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewContentService(&fakeDescriptionRepo{}, nil, &fakeGenerator{text: "copy"}, zerolog.Nop(), "images")

	if _, err := svc.GenerateFromText(ctx, nil, "  ab ", "marketing"); !errors.Is(err, ErrProductInfoRequired) {
		t.Fatalf("expected ErrProductInfoRequired, got %v", err)
	}
}

func TestGenerateFromTextUnknownStyleFallsBack(t *testing.T) {
	ctx := context.Background()
	svc := NewContentService(&fakeDescriptionRepo{}, nil, &fakeGenerator{text: "copy"}, zerolog.Nop(), "images")

	description, err := svc.GenerateFromText(ctx, nil, "handmade ceramic mug", "Shakespearean")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if description.Style != "marketing" {
		t.Fatalf("expected fallback to the default style, got %q", description.Style)
	}
}

func TestGenerateFromTextGeneratorFailure(t *testing.T) {
	ctx := context.Background()
	svc := NewContentService(&fakeDescriptionRepo{}, nil, &fakeGenerator{err: errors.New("quota exceeded")}, zerolog.Nop(), "images")

	if _, err := svc.GenerateFromText(ctx, nil, "handmade ceramic mug", ""); !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateFromImage(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDescriptionRepo{}
	storage := &fakeObjectStorage{}
	gen := &fakeGenerator{text: "copy"}
	svc := NewContentService(repo, storage, gen, zerolog.Nop(), "images")
	account := testAccount()

	payload := encodeJPEG(t)
	description, err := svc.GenerateFromImage(ctx, account, bytes.NewReader(payload), "friendly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if description.Source != domain.DescriptionSourceImage {
		t.Fatalf("unexpected source %q", description.Source)
	}
	if description.ImageURL == nil || !strings.HasPrefix(*description.ImageURL, "https://cdn.example.com/images/descriptions/") {
		t.Fatalf("unexpected image URL: %v", description.ImageURL)
	}
	if storage.bucket != "images" || storage.mimeType != "image/jpeg" {
		t.Fatalf("unexpected upload %q %q", storage.bucket, storage.mimeType)
	}
	if storage.size != int64(len(payload)) {
		t.Fatalf("unexpected upload size %d", storage.size)
	}
	if string(gen.lastImage) != string(payload) || gen.lastMime != "image/jpeg" {
		t.Fatal("expected raw image bytes to reach the generator")
	}
}

func TestGenerateFromImageStorageFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	storage := &fakeObjectStorage{err: errors.New("bucket gone")}
	svc := NewContentService(&fakeDescriptionRepo{}, storage, &fakeGenerator{text: "copy"}, zerolog.Nop(), "images")

	description, err := svc.GenerateFromImage(ctx, testAccount(), bytes.NewReader(encodePNG(t)), "")
	if err != nil {
		t.Fatalf("expected generation to survive a storage outage, got %v", err)
	}
	if description.ImageURL != nil {
		t.Fatalf("expected no image URL after failed upload, got %q", *description.ImageURL)
	}
}

func TestGenerateFromImageRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := NewContentService(&fakeDescriptionRepo{}, nil, &fakeGenerator{text: "copy"}, zerolog.Nop(), "images")

	if _, err := svc.GenerateFromImage(ctx, nil, strings.NewReader("hello"), ""); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage for non-image bytes, got %v", err)
	}
	if _, err := svc.GenerateFromImage(ctx, nil, strings.NewReader(""), ""); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage for empty file, got %v", err)
	}
}

func TestGenerateFromImageRejectsUndecodableBytes(t *testing.T) {
	ctx := context.Background()
	storage := &fakeObjectStorage{}
	gen := &fakeGenerator{text: "copy"}
	svc := NewContentService(&fakeDescriptionRepo{}, storage, gen, zerolog.Nop(), "images")

	// Bytes that only claim to be an image must not reach storage or the
	// generator.
	junk := strings.NewReader("this is definitely not an image")
	if _, err := svc.GenerateFromImage(ctx, testAccount(), junk, ""); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage for undecodable bytes, got %v", err)
	}
	if storage.objectName != "" {
		t.Fatalf("expected no upload for undecodable bytes, got %q", storage.objectName)
	}
	if gen.lastImage != nil {
		t.Fatal("expected undecodable bytes not to reach the generator")
	}

	// Truncated headers fail decoding too.
	truncated := encodePNG(t)[:8]
	if _, err := svc.GenerateFromImage(ctx, testAccount(), bytes.NewReader(truncated), ""); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage for truncated image, got %v", err)
	}
}

func TestGenerateFromImageDetectsFormatFromBytes(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{text: "copy"}
	svc := NewContentService(&fakeDescriptionRepo{}, nil, gen, zerolog.Nop(), "images")

	if _, err := svc.GenerateFromImage(ctx, nil, bytes.NewReader(encodePNG(t)), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.lastMime != "image/png" {
		t.Fatalf("expected mime decoded from bytes, got %q", gen.lastMime)
	}

	if _, err := svc.GenerateFromImage(ctx, nil, bytes.NewReader(encodeJPEG(t)), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.lastMime != "image/jpeg" {
		t.Fatalf("expected mime decoded from bytes, got %q", gen.lastMime)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	repo := &fakeDescriptionRepo{}
	svc := NewContentService(repo, nil, &fakeGenerator{text: "copy"}, zerolog.Nop(), "images")
	account := testAccount()
	other := testAccount()

	for i := 0; i < 25; i++ {
		if _, err := svc.GenerateFromText(ctx, account, "handmade ceramic mug", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := svc.GenerateFromText(ctx, other, "walnut desk organizer", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	history, err := svc.History(ctx, account.ID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 20 {
		t.Fatalf("expected default limit of 20, got %d", len(history))
	}
	for _, entry := range history {
		if entry.AccountID == nil || *entry.AccountID != account.ID {
			t.Fatal("expected history to be scoped to the account")
		}
	}

	history, err = svc.History(ctx, account.ID, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("expected explicit limit of 5, got %d", len(history))
	}
}

func TestStylesSorted(t *testing.T) {
	svc := NewContentService(&fakeDescriptionRepo{}, nil, &fakeGenerator{}, zerolog.Nop(), "images")
	styles := svc.Styles()
	want := []string{"friendly", "marketing", "professional", "storytelling"}
	if len(styles) != len(want) {
		t.Fatalf("unexpected styles %v", styles)
	}
	for i := range want {
		if styles[i] != want[i] {
			t.Fatalf("expected styles %v, got %v", want, styles)
		}
	}
}
