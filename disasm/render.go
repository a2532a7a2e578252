package disasm

import (
	"bufio"
	"fmt"
	"io"
)

// Render writes the report as text:
//
//	LdU8(1)
//	Call(0)
//	Ret
//
//	Call Data
//
//	0 - get:
//	  CopyLoc(0)
//	  Ret
//
//	Module Data
//
//	Registry:
//	  0: Entry
//	      key: u64
//
// A module heading is the module name, qualified as 0xa::Registry when
// another module in the report has the same name.
func Render(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	for _, l := range r.Script {
		fmt.Fprintln(bw, l.Text)
	}

	fmt.Fprint(bw, "\nCall Data\n\n")
	for _, c := range r.Calls {
		fmt.Fprintf(bw, "%d - %s:\n", c.Index, c.Name)
		for _, l := range c.Body {
			fmt.Fprintf(bw, "  %s\n", l.Text)
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprint(bw, "\nModule Data\n\n")
	names := make(map[string]int, len(r.Modules))
	for _, m := range r.Modules {
		names[m.Module]++
	}
	for _, m := range r.Modules {
		// Modules sharing a name are told apart by address.
		if names[m.Module] > 1 {
			fmt.Fprintf(bw, "%s::%s:\n", m.Address, m.Module)
		} else {
			fmt.Fprintf(bw, "%s:\n", m.Module)
		}
		for _, s := range m.Structs {
			if s.Native {
				fmt.Fprintf(bw, "  %d: %s (native)\n", s.Index, s.Name)
				continue
			}
			fmt.Fprintf(bw, "  %d: %s\n", s.Index, s.Name)
			for _, f := range s.Fields {
				fmt.Fprintf(bw, "      %s: %s\n", f.Name, f.Type)
			}
		}
	}

	return bw.Flush()
}

// RenderScript writes a plain listing, one instruction per line.
func RenderScript(w io.Writer, lines []Line) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		fmt.Fprintln(bw, l.Text)
	}
	return bw.Flush()
}
