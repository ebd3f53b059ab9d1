// Command marketplacectl runs operator tasks against the configured backends.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := &app{out: os.Stdout}
	err := newRootCmd(a).Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
