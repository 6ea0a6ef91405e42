package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/homeslice-backend/internal/platform/filestore"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
)

const avatarSize = 256

// AvatarService renders a deterministic initials avatar for a new user and
// writes it to the file store.
type AvatarService interface {
	Generate(ctx context.Context, name string, userID uuid.UUID) (key string, url string, err error)
}

type avatarService struct {
	log   *logger.Logger
	store filestore.Store
	font  *truetype.Font
}

func NewAvatarService(log *logger.Logger, store filestore.Store) (AvatarService, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	return &avatarService{
		log:   log.With("service", "AvatarService"),
		store: store,
		font:  f,
	}, nil
}

func (s *avatarService) Generate(ctx context.Context, name string, userID uuid.UUID) (string, string, error) {
	dc := gg.NewContext(avatarSize, avatarSize)
	bg := backgroundFor(name)
	dc.SetColor(bg)
	dc.Clear()

	face := truetype.NewFace(s.font, &truetype.Options{
		Size:    avatarSize * 0.42,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initialsFor(name), avatarSize/2, avatarSize/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return "", "", fmt.Errorf("encode avatar: %w", err)
	}

	key := fmt.Sprintf("avatars/%s.png", userID)
	if err := s.store.Put(ctx, key, buf.Bytes()); err != nil {
		return "", "", fmt.Errorf("store avatar: %w", err)
	}
	return key, "/media/" + key, nil
}

func initialsFor(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	switch {
	case len(fields) == 0:
		return "?"
	case len(fields) == 1:
		return strings.ToUpper(string([]rune(fields[0])[0]))
	default:
		first := []rune(fields[0])[0]
		last := []rune(fields[len(fields)-1])[0]
		return strings.ToUpper(string(first) + string(last))
	}
}

var avatarPalette = []color.RGBA{
	{R: 0x2f, G: 0x6f, B: 0xed, A: 0xff},
	{R: 0xd9, G: 0x53, B: 0x4f, A: 0xff},
	{R: 0x3a, G: 0x9d, B: 0x5d, A: 0xff},
	{R: 0x8e, G: 0x44, B: 0xad, A: 0xff},
	{R: 0xe6, G: 0x7e, B: 0x22, A: 0xff},
	{R: 0x16, G: 0xa0, B: 0x85, A: 0xff},
}

func backgroundFor(name string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return avatarPalette[int(h.Sum32())%len(avatarPalette)]
}
