package terminal

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/yaklabco/mdterm/pkg/resources"
)

// ITerm2Images renders inline images with the iTerm2 OSC 1337 File
// sequence. iTerm2 decodes the image itself, so the payload is the raw
// file contents.
type ITerm2Images struct{}

func (ITerm2Images) Name() string { return "iTerm2" }

func (ITerm2Images) RenderImage(w io.Writer, target *url.URL, size Size, access resources.Access) error {
	contents, err := resources.Read(target, access)
	if err != nil {
		return err
	}
	name := path.Base(target.Path)
	_, err = fmt.Fprintf(w, "\x1b]1337;File=name=%s;size=%d;inline=1:%s\a\n",
		base64.StdEncoding.EncodeToString([]byte(name)),
		len(contents),
		base64.StdEncoding.EncodeToString(contents))
	return err
}
