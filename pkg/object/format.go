package object

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes o's subtree, one object per line, indented by depth.
func (o *Object) Dump(w io.Writer) error {
	var err error
	base := o.depth
	o.Walk(func(n *Object) bool {
		if err != nil {
			return false
		}
		indent := strings.Repeat("  ", n.depth-base)
		_, err = fmt.Fprintf(w, "%s%s\n", indent, n)
		return true
	})
	return err
}
