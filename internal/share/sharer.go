// Package share carries out share and open requests from the detail screen.
package share

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/pders01/brief/internal/debuglog"
	"github.com/pders01/brief/internal/detail"
)

// Sharer copies share requests to the system clipboard.
type Sharer struct {
	write  func(string) error
	native bool
}

func NewSharer() *Sharer {
	return &Sharer{write: clipboard.WriteAll, native: true}
}

// NewSharerWithWriter returns a Sharer that hands the text to write instead
// of the clipboard.
func NewSharerWithWriter(write func(string) error) *Sharer {
	return &Sharer{write: write}
}

// Available reports whether Share can succeed: a custom writer always can,
// the system clipboard only when a backend exists.
func (s *Sharer) Available() bool {
	return !s.native || !clipboard.Unsupported
}

func (s *Sharer) Share(req detail.ShareRequest) error {
	if req.URL == "" {
		return fmt.Errorf("nothing to share")
	}

	if err := s.write(req.Text()); err != nil {
		debuglog.WithFields(map[string]interface{}{"url": req.URL}).Errorf("share: clipboard write failed: %v", err)
		return fmt.Errorf("copying to clipboard: %w", err)
	}

	debuglog.WithFields(map[string]interface{}{"url": req.URL}).Infof("share: copied to clipboard")
	return nil
}
