package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"github.com/describo/describo-backend/internal/domain"
	"github.com/describo/describo-backend/internal/repository/ports"
)

var (
	ErrProductInfoRequired = errors.New("product information is too short")
	ErrInvalidImage        = errors.New("invalid image file")
	ErrGenerationFailed    = errors.New("unable to generate a description")
)

const (
	defaultStyle      = "marketing"
	defaultHistoryMax = 20
	maxImageBytes     = 10 << 20
)

var stylePrompts = map[string]string{
	"marketing":    "Write in a punchy, emotionally charged marketing voice. Stress the product's unique benefits and value, create a sense of scarcity, and close with a strong call to action.",
	"professional": "Write in a professional, trustworthy register. Lead with verifiable facts about origin, quality and certifications, and avoid filler claims.",
	"friendly":     "Write in a warm, conversational tone, as if recommending the product to a friend. Keep the language simple, positive and sincere.",
	"storytelling": "Write as a short story. Open with a scene that draws the reader in, weave the product into the narrative, and end with a gentle nudge to try it.",
}

// ContentGenerator produces description text from a prompt, optionally
// grounded on an image. Third-party API glue; failures surface as-is.
type ContentGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// ContentService generates product descriptions and keeps per-account
// history. Accounts are optional: anonymous generations are returned but not
// recorded.
type ContentService struct {
	descriptions ports.DescriptionRepository
	storage      ports.ObjectStorage
	generator    ContentGenerator
	logger       zerolog.Logger
	imageBucket  string
	now          func() time.Time
}

func NewContentService(descriptions ports.DescriptionRepository, storage ports.ObjectStorage, generator ContentGenerator, logger zerolog.Logger, imageBucket string) *ContentService {
	return &ContentService{
		descriptions: descriptions,
		storage:      storage,
		generator:    generator,
		logger:       logger,
		imageBucket:  imageBucket,
		now:          time.Now,
	}
}

// Styles lists the supported writing styles, sorted.
func (s *ContentService) Styles() []string {
	styles := make([]string, 0, len(stylePrompts))
	for style := range stylePrompts {
		styles = append(styles, style)
	}
	sort.Strings(styles)
	return styles
}

func (s *ContentService) GenerateFromText(ctx context.Context, account *domain.Account, productInfo, style string) (*domain.Description, error) {
	productInfo = strings.TrimSpace(productInfo)
	if len(productInfo) < 3 {
		return nil, ErrProductInfoRequired
	}
	style = normalizeStyle(style)

	text, err := s.generator.GenerateText(ctx, textPrompt(productInfo, style))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	text = sanitizeOutput(text)
	if text == "" {
		return nil, ErrGenerationFailed
	}

	return s.record(ctx, account, domain.DescriptionSourceText, style, text, nil)
}

func (s *ContentService) GenerateFromImage(ctx context.Context, account *domain.Account, file io.Reader, style string) (*domain.Description, error) {
	style = normalizeStyle(style)

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxImageBytes {
		return nil, ErrInvalidImage
	}
	mimeType, suffix, ok := imageKind(data)
	if !ok {
		return nil, ErrInvalidImage
	}

	var imageURL *string
	if s.storage != nil {
		objectName := fmt.Sprintf("descriptions/%s%s", strings.ReplaceAll(uuid.NewString(), "-", ""), suffix)
		url, err := s.storage.Upload(ctx, s.imageBucket, objectName, mimeType, bytes.NewReader(data), int64(len(data)))
		if err != nil {
			// The description is still worth generating when storage is
			// down; history just loses the image link.
			s.logger.Warn().Err(err).Msg("upload description image")
		} else {
			imageURL = &url
		}
	}

	text, err := s.generator.GenerateFromImage(ctx, imagePrompt(style), data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	text = sanitizeOutput(text)
	if text == "" {
		return nil, ErrGenerationFailed
	}

	return s.record(ctx, account, domain.DescriptionSourceImage, style, text, imageURL)
}

// History returns the account's most recent generations, newest first.
func (s *ContentService) History(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Description, error) {
	if limit <= 0 {
		limit = defaultHistoryMax
	}
	return s.descriptions.ListByAccount(ctx, accountID, limit)
}

func (s *ContentService) record(ctx context.Context, account *domain.Account, source, style, content string, imageURL *string) (*domain.Description, error) {
	description := &domain.Description{
		Source:    source,
		Style:     style,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}
	if account == nil {
		return description, nil
	}
	description.AccountID = &account.ID
	stored, err := s.descriptions.Create(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("store description: %w", err)
	}
	return stored, nil
}

func normalizeStyle(style string) string {
	style = strings.ToLower(strings.TrimSpace(style))
	if _, ok := stylePrompts[style]; !ok {
		return defaultStyle
	}
	return style
}

// sanitizeOutput strips markdown emphasis the model tends to sprinkle in.
func sanitizeOutput(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "*", ""))
}

func textPrompt(productInfo, style string) string {
	return fmt.Sprintf(`You are an e-commerce copywriter. Write a compelling product description for:
%q

%s

Return a short headline, a one-line slogan, a 100-150 word description, a bulleted list of highlights, practical benefits, and 5-7 search keywords.`, productInfo, stylePrompts[style])
}

func imagePrompt(style string) string {
	return fmt.Sprintf(`You are an e-commerce copywriter. Write a compelling sales description for the product shown in the image.

%s

Return a short headline, a one-line slogan, a 100-150 word description, a bulleted list of highlights, practical benefits, and 5-7 search keywords.`, stylePrompts[style])
}

// imageKind decodes the upload header to prove the bytes really are an
// image. Declared names and extensions are not trusted.
func imageKind(data []byte) (mimeType, suffix string, ok bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return "", "", false
	}
	switch format {
	case "jpeg":
		return "image/jpeg", ".jpg", true
	case "png":
		return "image/png", ".png", true
	case "gif":
		return "image/gif", ".gif", true
	case "webp":
		return "image/webp", ".webp", true
	}
	return "", "", false
}
