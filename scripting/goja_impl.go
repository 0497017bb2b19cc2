package scripting

import (
	"context"

	"github.com/dop251/goja"

	"github.com/AhmadAli88/IFrame-Pdf-Viewer/coords"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// RegisterSession exposes the session as three globals:
//
//	app.alert(msg)
//	viewport.width() / viewport.height()
//	annotate.setColor(hex) / setStrokeWidth(w) / highlight(x0,y0,x1,y1)
//	        / path([[x,y],...]) / note(x,y,text) / count() / clear()
//
// Commit-style calls return true on success and false when the session
// rejects the input, so macros can check outcomes without try/catch.
func (e *GojaEngine) RegisterSession(session SessionAPI) error {
	appObj := e.vm.NewObject()
	err := appObj.Set("alert", func(call goja.FunctionCall) goja.Value {
		msg := ""
		if len(call.Arguments) > 0 {
			msg = call.Arguments[0].String()
		}
		session.Alert(msg)
		return goja.Undefined()
	})
	if err != nil {
		return err
	}
	if err := e.vm.Set("app", appObj); err != nil {
		return err
	}

	vpObj := e.vm.NewObject()
	if err := vpObj.Set("width", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(session.Viewport().Width)
	}); err != nil {
		return err
	}
	if err := vpObj.Set("height", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(session.Viewport().Height)
	}); err != nil {
		return err
	}
	if err := e.vm.Set("viewport", vpObj); err != nil {
		return err
	}

	annObj := e.vm.NewObject()

	if err := annObj.Set("setColor", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.ToValue(false)
		}
		return e.vm.ToValue(session.SetColor(call.Arguments[0].String()) == nil)
	}); err != nil {
		return err
	}

	if err := annObj.Set("setStrokeWidth", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.ToValue(false)
		}
		session.SetStrokeWidth(call.Arguments[0].ToFloat())
		return e.vm.ToValue(true)
	}); err != nil {
		return err
	}

	if err := annObj.Set("highlight", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 4 {
			return e.vm.ToValue(false)
		}
		start := coords.Point{X: call.Arguments[0].ToFloat(), Y: call.Arguments[1].ToFloat()}
		end := coords.Point{X: call.Arguments[2].ToFloat(), Y: call.Arguments[3].ToFloat()}
		return e.vm.ToValue(session.AddHighlight(start, end) == nil)
	}); err != nil {
		return err
	}

	if err := annObj.Set("path", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return e.vm.ToValue(false)
		}
		points, ok := exportPoints(call.Arguments[0])
		if !ok || len(points) == 0 {
			return e.vm.ToValue(false)
		}
		return e.vm.ToValue(session.AddPath(points) == nil)
	}); err != nil {
		return err
	}

	if err := annObj.Set("note", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 3 {
			return e.vm.ToValue(false)
		}
		pos := coords.Point{X: call.Arguments[0].ToFloat(), Y: call.Arguments[1].ToFloat()}
		return e.vm.ToValue(session.AddNote(pos, call.Arguments[2].String()) == nil)
	}); err != nil {
		return err
	}

	if err := annObj.Set("count", func(call goja.FunctionCall) goja.Value {
		return e.vm.ToValue(session.Count())
	}); err != nil {
		return err
	}

	if err := annObj.Set("clear", func(call goja.FunctionCall) goja.Value {
		session.Clear()
		return goja.Undefined()
	}); err != nil {
		return err
	}

	return e.vm.Set("annotate", annObj)
}

// exportPoints converts a JS array of [x, y] pairs. Numbers come out
// of goja as int64 when integral and float64 otherwise.
func exportPoints(v goja.Value) ([]coords.Point, bool) {
	raw, ok := v.Export().([]interface{})
	if !ok {
		return nil, false
	}
	points := make([]coords.Point, 0, len(raw))
	for _, item := range raw {
		pair, ok := item.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, false
		}
		x, ok := toFloat(pair[0])
		if !ok {
			return nil, false
		}
		y, ok := toFloat(pair[1])
		if !ok {
			return nil, false
		}
		points = append(points, coords.Point{X: x, Y: y})
	}
	return points, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
