package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ToastType selects the toast color.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastError
)

const (
	toastLimit = 3
	toastFade  = 250 * time.Millisecond
	toastPad   = 10.0
)

type toast struct {
	text    string
	kind    ToastType
	shown   time.Time
	expires time.Time
}

// opacity fades a toast in after it appears and out before it expires.
func (t *toast) opacity(now time.Time) float64 {
	a := 1.0
	if in := now.Sub(t.shown); in < toastFade {
		a = float64(in) / float64(toastFade)
	}
	if out := t.expires.Sub(now); out < toastFade {
		a = min(a, float64(out)/float64(toastFade))
	}
	return max(a, 0)
}

// ToastManager stacks short messages at the bottom of the board. The
// newest message is drawn lowest.
type ToastManager struct {
	toasts []*toast
	now    func() time.Time
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{now: time.Now}
}

// Show queues a message for d. A repeat of the newest message only
// extends it.
func (tm *ToastManager) Show(message string, kind ToastType, d time.Duration) {
	now := tm.now()
	if n := len(tm.toasts); n > 0 && tm.toasts[n-1].text == message {
		tm.toasts[n-1].expires = now.Add(d)
		return
	}
	tm.toasts = append(tm.toasts, &toast{text: message, kind: kind, shown: now, expires: now.Add(d)})
	if len(tm.toasts) > toastLimit {
		tm.toasts = tm.toasts[len(tm.toasts)-toastLimit:]
	}
}

// Update drops expired toasts.
func (tm *ToastManager) Update() {
	now := tm.now()
	kept := tm.toasts[:0]
	for _, t := range tm.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	tm.toasts = kept
}

// Len returns the number of visible toasts.
func (tm *ToastManager) Len() int {
	return len(tm.toasts)
}

func toastColor(kind ToastType, alpha float64) color.RGBA {
	c := statusWaiting
	if kind == ToastError {
		c = statusError
	}
	return color.RGBA{c.R / 2, c.G / 2, c.B / 2, uint8(230 * alpha)}
}

// Draw renders the toasts centered over the left width pixels of screen.
func (tm *ToastManager) Draw(screen *ebiten.Image, width int) {
	face := GetRegularFace()
	if face == nil || len(tm.toasts) == 0 {
		return
	}
	now := tm.now()
	y := float64(screen.Bounds().Dy()) - 24

	for i := len(tm.toasts) - 1; i >= 0; i-- {
		t := tm.toasts[i]
		a := t.opacity(now)
		w, h := MeasureText(t.text, face)
		boxW, boxH := w+toastPad*2, h+toastPad*2
		x := (float64(width) - boxW) / 2
		y -= boxH

		vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), toastColor(t.kind, a), false)
		drawText(screen, t.text, face, x+toastPad, y+toastPad, color.RGBA{255, 255, 255, uint8(255 * a)})
		y -= 6
	}
}
