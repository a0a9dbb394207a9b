// Command hiwave parses HTML from a file or standard input and prints the
// resulting tree in the html5lib dump format.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yonasBSD/hiwave-windows-sub003/parser"
)

func main() {
	if os.Getenv("HIWAVE_TRACE") != "" {
		logrus.SetLevel(logrus.TraceLevel)
	}

	var in io.Reader = os.Stdin
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			logrus.WithError(err).Fatal("could not open input")
		}
		defer f.Close()
		in = f
	}

	doc, err := parser.Parse(in)
	if err != nil {
		logrus.WithError(err).Fatal("parse failed")
	}
	fmt.Println(doc)
}
