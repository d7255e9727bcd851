package pagefile

import (
	"fmt"

	"github.com/arloliu/zbewalgo/errs"
	"github.com/arloliu/zbewalgo/format"
	"github.com/arloliu/zbewalgo/internal/options"
)

// DefaultPageSize is the page size used unless WithPageSize is given.
const DefaultPageSize = format.MaxInputSize

// WriterConfig holds Writer settings.
type WriterConfig struct {
	pageSize int
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithPageSize sets the page size, 1 to format.MaxInputSize bytes.
func WithPageSize(n int) WriterOption {
	return options.New(func(c *WriterConfig) error {
		if n < 1 || n > format.MaxInputSize {
			return fmt.Errorf("%w: %d", errs.ErrInvalidPageSize, n)
		}
		c.pageSize = n

		return nil
	})
}

// ReaderConfig holds Reader settings.
type ReaderConfig struct {
	trusted bool
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*ReaderConfig]

// WithTrustedInput makes the reader use unchecked decompression. Only use it
// for files written by this process or verified earlier; checksums are still
// compared.
func WithTrustedInput() ReaderOption {
	return options.NoError(func(c *ReaderConfig) {
		c.trusted = true
	})
}
