package util

import (
	"bufio"
	"io"
)

// SafeReadLine blocks until a whole line can be read or
// r returns an error. The trailing \n is stripped.
// ***warning: expects lines to be \n separated***
func SafeReadLine(r *bufio.Reader) (line []byte, err error) {
	line, err = r.ReadBytes('\n')
	if n := len(line); n > 0 && line[n-1] == '\n' {
		// strip the \n
		line = line[:n-1]
	}
	return
}

// ReadFields reads r as a list of \n terminated fields.
// Empty lines are kept as empty fields, a final line
// without \n is a field as well.
func ReadFields(r io.Reader) ([]string, error) {
	var fields []string
	src := bufio.NewReader(r)
	for {
		line, err := SafeReadLine(src)
		if err == io.EOF {
			if len(line) > 0 {
				fields = append(fields, string(line))
			}
			return fields, nil
		}
		if err != nil {
			return fields, err
		}
		fields = append(fields, string(line))
	}
}
