package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

const maxLineSize = 1024 * 1024

type documentInput struct {
	Text    string
	Ratings []int
}

type input struct {
	StopWords string
	Documents []documentInput
	Queries   []string
}

// readInput parses the stop words line, the document count, each document's
// text and ratings lines, and treats every remaining non-empty line as a
// query.
func readInput(r io.Reader) (*input, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return strings.TrimSuffix(scanner.Text(), "\r"), true
	}

	in := &input{}
	stopWords, ok := next()
	if !ok {
		return nil, scanErr(scanner, "missing stop words line")
	}
	in.StopWords = stopWords

	countLine, ok := next()
	if !ok {
		return nil, scanErr(scanner, "missing document count line")
	}
	count, err := strconv.Atoi(strings.TrimSpace(countLine))
	if err != nil || count < 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "line %d: invalid document count %q", lineNo, countLine)
	}

	in.Documents = make([]documentInput, 0, count)
	for i := 0; i < count; i++ {
		text, ok := next()
		if !ok {
			return nil, scanErr(scanner, fmt.Sprintf("missing text of document %d", i))
		}
		ratingsLine, ok := next()
		if !ok {
			return nil, scanErr(scanner, fmt.Sprintf("missing ratings of document %d", i))
		}
		ratings, err := parseRatings(ratingsLine)
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "line %d: %v", lineNo, err)
		}
		in.Documents = append(in.Documents, documentInput{Text: text, Ratings: ratings})
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) != "" {
			in.Queries = append(in.Queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return in, nil
}

// parseRatings reads "k r1 .. rk".
func parseRatings(line string) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty ratings line")
	}
	k, err := strconv.Atoi(fields[0])
	if err != nil || k < 0 {
		return nil, fmt.Errorf("invalid ratings count %q", fields[0])
	}
	if len(fields)-1 != k {
		return nil, fmt.Errorf("expected %d ratings, got %d", k, len(fields)-1)
	}
	ratings := make([]int, k)
	for i, f := range fields[1:] {
		r, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid rating %q", f)
		}
		ratings[i] = r
	}
	return ratings, nil
}

func scanErr(scanner *bufio.Scanner, msg string) error {
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return apperrors.New(apperrors.ErrInvalidArgument, msg)
}
