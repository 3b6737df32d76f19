package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

var errMissingContentLength = errors.New("unable to find '" + ContentLengthHeader + "' header")

// ReceiveInput creates a scanner yielding the body of every LSP message read from input.
func ReceiveInput(input io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxMessageSize+1024)
	scanner.Split(decode)

	return scanner
}

// SendToLspClient frames response with its header and writes it to output.
func SendToLspClient(output io.Writer, response []byte) {
	if _, err := output.Write(Encode(response)); err != nil {
		slog.Error("unable to write to lsp client", slog.String("error", err.Error()))
	}
}

// Encode prefixes data with its Content-Length header.
func Encode(dataContent []byte) []byte {
	header := ContentLengthHeader + ": " + strconv.Itoa(len(dataContent)) + HeaderDelimiter

	framed := make([]byte, 0, len(header)+len(dataContent))
	framed = append(framed, header...)

	return append(framed, dataContent...)
}

// decode is a bufio.SplitFunc cutting the stream at message boundaries.
func decode(data []byte, atEOF bool) (advance int, token []byte, err error) {
	headerEnd := bytes.Index(data, []byte(HeaderDelimiter))
	if headerEnd == -1 {
		if atEOF && len(bytes.TrimSpace(data)) > 0 {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return 0, nil, nil
	}

	contentLength, err := parseContentLength(data[:headerEnd])
	if err != nil {
		return 0, nil, err
	}

	bodyStart := headerEnd + len(HeaderDelimiter)
	bodyEnd := bodyStart + contentLength

	if len(data) < bodyEnd {
		if atEOF {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return 0, nil, nil
	}

	return bodyEnd, data[bodyStart:bodyEnd], nil
}

// parseContentLength reads the Content-Length value out of the header block.
// Header names are matched case-insensitively; other headers are ignored.
func parseContentLength(header []byte) (int, error) {
	for line := range strings.SplitSeq(string(header), LineDelimiter) {
		name, value, found := strings.Cut(line, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(name), ContentLengthHeader) {
			continue
		}

		contentLength, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return -1, fmt.Errorf("malformed '%s' header: %w", ContentLengthHeader, err)
		}

		if contentLength < 0 || contentLength > MaxMessageSize {
			return -1, fmt.Errorf("'%s' out of bounds: %d", ContentLengthHeader, contentLength)
		}

		return contentLength, nil
	}

	return -1, errMissingContentLength
}
