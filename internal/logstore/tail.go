package logstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// MaxLineBytes is the longest line a read returns. Longer lines are cut to
// this size, and New caps the writer's limit at it.
const MaxLineBytes = 16 * 1024 * 1024

// readTail returns at most maxLines non-empty lines from the end of the file
// at path, oldest first. found is false when the file does not exist.
func readTail(path string, maxLines int) (lines []string, found bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open partition: %w", err)
	}
	defer file.Close()

	if maxLines <= 0 {
		return []string{}, true, nil
	}

	ring := make([]string, maxLines)
	reader := bufio.NewReaderSize(file, 64*1024)
	count := 0
	idx := 0
	for {
		line, err := readLine(reader, MaxLineBytes)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, true, fmt.Errorf("read partition: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}

	lines = make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, true, nil
}

// readLine returns the next line without its terminator, keeping at most
// limit bytes. The remainder of an overlong line is consumed and dropped.
// It returns io.EOF only when no bytes are left.
func readLine(r *bufio.Reader, limit int) (string, error) {
	keep := limit + utf8.UTFMax
	var buf []byte
	for {
		chunk, err := r.ReadSlice('\n')
		if room := keep - len(buf); len(chunk) > room {
			chunk = chunk[:max(room, 0)]
		}
		buf = append(buf, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && (!errors.Is(err, io.EOF) || len(buf) == 0) {
			return "", err
		}
		return truncateUTF8(strings.TrimRight(string(buf), "\r\n"), limit), nil
	}
}
