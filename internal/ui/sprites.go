// Package ui implements the SimpleChess window using Ebitengine.
package ui

import (
	"bytes"
	"embed"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"

	"github.com/hailam/simplechess/internal/board"
	"github.com/hailam/simplechess/internal/obslog"
)

//go:embed assets/pieces/*.svg
var pieceAssets embed.FS

// Pieces are rasterized at this multiple of the square size and scaled down
// when drawn.
const supersample = 3

// PieceSet holds one image per piece id, indexed by board.Piece.
type PieceSet struct {
	images [board.NumPieces]*ebiten.Image
	square int
}

// NewPieceSet rasterizes the embedded piece icons for squares of the given
// size. A piece whose icon fails to load is simply not drawn.
func NewPieceSet(square int) *PieceSet {
	ps := &PieceSet{square: square}
	for p := board.WhitePawn; p <= board.BlackKing; p++ {
		img, err := loadPiece(p, square*supersample)
		if err != nil {
			obslog.L().Warn("piece_image_failed", zap.Stringer("piece", p), zap.Error(err))
			continue
		}
		ps.images[p] = ebiten.NewImageFromImage(img)
	}
	return ps
}

// pieceAsset returns the embedded icon path for p, e.g. assets/pieces/wN.svg.
func pieceAsset(p board.Piece) string {
	side := "w"
	if p.IsBlack() {
		side = "b"
	}
	letter := board.NewPiece(p.Kind(), board.White).Char()
	return fmt.Sprintf("assets/pieces/%s%c.svg", side, letter)
}

func loadPiece(p board.Piece, px int) (*image.RGBA, error) {
	data, err := pieceAssets.ReadFile(pieceAsset(p))
	if err != nil {
		return nil, err
	}
	return rasterize(data, px)
}

// rasterize renders an SVG icon into a px by px image.
func rasterize(svg []byte, px int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(px), float64(px))

	img := image.NewRGBA(image.Rect(0, 0, px, px))
	scanner := rasterx.NewScannerGV(px, px, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(px, px, scanner), 1)
	return img, nil
}

// Draw draws p filling the square whose top-left corner is x, y.
func (ps *PieceSet) Draw(screen *ebiten.Image, p board.Piece, x, y int) {
	if !p.Valid() || ps.images[p] == nil {
		return
	}
	img := ps.images[p]
	scale := float64(ps.square) / float64(img.Bounds().Dx())

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}
