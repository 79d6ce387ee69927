package graph

import "testing"

func TestLoadScriptErrors(t *testing.T) {
	if _, err := LoadScript([]byte("{not json")); err == nil {
		t.Error("malformed JSON accepted")
	}
	if _, err := LoadScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("empty script accepted")
	}
}

func TestScriptRunnerClickAndDrag(t *testing.T) {
	s := newTestScene(t)
	b := s.AddBlock("a", Rect{X: 100, Y: 100, Width: 200, Height: 100})

	runner, err := LoadScript([]byte(`{
		"steps": [
			{"action": "drag", "fromX": 200, "fromY": 150, "toX": 500, "toY": 350, "steps": 4},
			{"action": "wait", "frames": 3},
			{"action": "click", "x": 800, "y": 600}
		]
	}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	s.SetScriptRunner(runner)

	for i := 0; i < 100 && !runner.Done(); i++ {
		s.Update()
	}
	if !runner.Done() {
		t.Fatal("script did not finish within 100 frames")
	}

	assertRect(t, "dragged geometry", b.Geometry(), Rect{X: 400, Y: 300, Width: 200, Height: 100})
	// The final empty-canvas click cleared the selection left by the drag.
	if got := s.Selection().IDs(KindBlock); len(got) != 0 {
		t.Errorf("selection = %v after empty-canvas click, want empty", got)
	}
}

func TestScriptRunnerWheel(t *testing.T) {
	s := newTestScene(t)
	runner, err := LoadScript([]byte(`{
		"steps": [{"action": "wheel", "x": 500, "y": 400, "wheel": 1}]
	}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	s.SetScriptRunner(runner)

	for i := 0; i < 10 && !runner.Done(); i++ {
		s.Update()
	}

	assertNear(t, "scale", s.Camera().State().Scale, 1.1)
}

func TestScriptRunnerWaitDelaysNextStep(t *testing.T) {
	s := newTestScene(t)
	s.AddBlock("a", Rect{X: 0, Y: 0, Width: 100, Height: 100})

	runner, err := LoadScript([]byte(`{
		"steps": [
			{"action": "wait", "frames": 5},
			{"action": "click", "x": 50, "y": 50}
		]
	}`))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	s.SetScriptRunner(runner)

	// During the wait window nothing is selected yet.
	for i := 0; i < 4; i++ {
		s.Update()
	}
	if len(s.Selection().IDs(KindBlock)) != 0 {
		t.Error("click ran before the wait elapsed")
	}

	for i := 0; i < 20 && !runner.Done(); i++ {
		s.Update()
	}
	if !s.Selection().IsSelected(KindBlock, "a") {
		t.Error("scripted click did not select the block")
	}
}
