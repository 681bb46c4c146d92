package control

import "testing"

func TestBuildResponseGetStatus(t *testing.T) {
	h := &Handler{callbacks: Callbacks{
		OnGetStatus: func() map[string]interface{} {
			return map[string]interface{}{"buffer_size": 3}
		},
	}}

	resp := h.buildResponse(Command{Command: "get_status"})
	if resp.Status != "success" {
		t.Fatalf("Status = %q, want success", resp.Status)
	}
	if resp.Data["buffer_size"] != 3 {
		t.Errorf("Data[buffer_size] = %v, want 3", resp.Data["buffer_size"])
	}
}

func TestBuildResponseGetStatusUnimplemented(t *testing.T) {
	h := &Handler{}
	resp := h.buildResponse(Command{Command: "get_status"})
	if resp.Status != "error" {
		t.Fatalf("Status = %q, want error", resp.Status)
	}
}

func TestBuildResponseSetBurnExtraFrames(t *testing.T) {
	var got bool
	h := &Handler{callbacks: Callbacks{
		OnSetBurnExtraFrames: func(v bool) error {
			got = v
			return nil
		},
	}}

	resp := h.buildResponse(Command{
		Command: "set_burn_extra_frames",
		Params:  map[string]interface{}{"enabled": true},
	})
	if resp.Status != "success" {
		t.Fatalf("Status = %q, want success", resp.Status)
	}
	if !got {
		t.Error("OnSetBurnExtraFrames was not called with true")
	}
}

func TestBuildResponseSetBurnExtraFramesMissingParam(t *testing.T) {
	h := &Handler{callbacks: Callbacks{
		OnSetBurnExtraFrames: func(bool) error { return nil },
	}}

	resp := h.buildResponse(Command{Command: "set_burn_extra_frames"})
	if resp.Status != "error" {
		t.Fatalf("Status = %q, want error", resp.Status)
	}
}

func TestBuildResponseUnknownCommand(t *testing.T) {
	h := &Handler{}
	resp := h.buildResponse(Command{Command: "reticulate_splines"})
	if resp.Status != "error" {
		t.Fatalf("Status = %q, want error", resp.Status)
	}
}
