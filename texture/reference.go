package texture

import (
	"fmt"
	"strings"

	"github.com/gogpu/quad/vfs"
)

// ReferenceError reports an alias chain that was abandoned.
type ReferenceError struct {
	Name  string // name whose resolution was dropped
	Root  string // name originally requested
	Depth int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("texture: reference chain from %q too deep at %q (depth %d)", e.Root, e.Name, e.Depth)
}

// ReadReference returns the first line of a reference stream, without the
// line terminator and surrounding spaces.
func ReadReference(s vfs.Stream) (string, error) {
	var line []byte
	for !s.EOF() {
		c, err := s.ReadByte()
		if err != nil {
			return "", fmt.Errorf("texture: read reference: %w", err)
		}
		if c == '\n' || c == '\r' {
			break
		}
		line = append(line, c)
	}
	return strings.TrimSpace(string(line)), nil
}

// ResolveReference reports the target of `<name>.omtr` when it exists.
func ResolveReference(fs vfs.Filesystem, name string) (target string, ok bool, err error) {
	file := name + ReferenceSuffix
	if !fs.Exists(file) {
		return "", false, nil
	}
	s, err := fs.Open(file)
	if err != nil {
		return "", true, err
	}
	defer s.Close()
	target, err = ReadReference(s)
	if err != nil {
		return "", true, err
	}
	if target == "" {
		return "", true, fmt.Errorf("texture: %s is empty", file)
	}
	return target, true, nil
}
