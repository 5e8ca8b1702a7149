package pdf

import (
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ValidateTTF checks that the bytes register as a usable UTF-8 font.
// Registration happens on a throwaway document so a bad upload can never
// poison the invoice being built.
func ValidateTTF(data []byte) (err error) {
	if len(data) == 0 {
		return errors.New("empty font file")
	}
	// The TTF parser can panic on truncated tables; treat that as a
	// malformed upload, not a crash.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed font file: %v", r)
		}
	}()
	probe := gofpdf.New("P", "pt", "A4", "")
	probe.AddUTF8FontFromBytes("probe", "", data)
	probe.AddPage()
	probe.SetFont("probe", "", 10)
	if err := probe.Error(); err != nil {
		return err
	}
	return nil
}
