package object

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
)

// recorder is a backend that logs every hook call.
type recorder struct {
	calls    []string
	created  int
	released int
	failOn   string
	registry *effect.Registry[*recordHandle]
}

func newRecorder() *recorder {
	r := &recorder{registry: effect.NewRegistry[*recordHandle]()}
	for _, k := range []effect.Kind{effect.KindFill, effect.KindBorder} {
		k := k
		r.registry.Register(k, "color", func(h *recordHandle, args attrs.Map) error {
			return h.log("effect:" + string(k))
		})
	}
	r.registry.RegisterWithDefaults(effect.KindText, "", attrs.Map{"size_pt": 10}, func(h *recordHandle, _ attrs.Map) error {
		return h.log("effect:text")
	})
	return r
}

func (r *recorder) Name() string { return "recorder" }

func (r *recorder) NewHandle(o *Object) Handle { return &recordHandle{r: r, o: o} }

func (r *recorder) Defaults(kind effect.Kind, variant string) attrs.Map {
	return r.registry.Defaults(kind, variant)
}

func (r *recorder) CreateShared(root *Object) (any, error) {
	r.created++
	return root.Key(), nil
}

func (r *recorder) ReleaseShared(*Object, any) { r.released++ }

type recordHandle struct {
	r *recorder
	o *Object
}

func (h *recordHandle) log(call string) error {
	entry := call + " " + h.o.Key()
	h.r.calls = append(h.r.calls, entry)
	if h.r.failOn == entry {
		return errors.New(errors.ErrCodeInternal, "fail on %s", entry)
	}
	return nil
}

func (h *recordHandle) PreDrawRoot() error {
	if _, err := h.o.Shared(); err != nil {
		return err
	}
	return h.log("pre-root")
}

func (h *recordHandle) PreDrawObject() error { return h.log("pre") }

func (h *recordHandle) ApplyEffect(e effect.Effect) error { return h.r.registry.Apply(h, e) }

func (h *recordHandle) PostDrawObject() error { return h.log("post") }

func (h *recordHandle) PostDrawRoot() error { return h.log("post-root") }
