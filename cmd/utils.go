package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var ANSWERS = map[string]bool{
	"y":   true,
	"yes": true,
	"n":   false,
	"no":  false,
}

func prompt(in io.Reader, out io.Writer, q string) bool {
	_, _ = fmt.Fprint(out, "> "+q+" [Y/N] ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return ANSWERS[strings.ToLower(strings.TrimSpace(answer))]
}
