package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	pb "github.com/JonathanSchmidt1/ml-peg/gen/engine"
	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"google.golang.org/grpc"
)

// #region mock
type mockEngineService struct {
	pb.RelaxationEngineClient

	lastReq *pb.EvaluateRequest
	resp    *pb.EvaluateResponse
	err     error
}

func (m *mockEngineService) Evaluate(_ context.Context, req *pb.EvaluateRequest, _ ...grpc.CallOption) (*pb.EvaluateResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

// #endregion mock

func testStructure() crystal.Structure {
	return crystal.Structure{
		ID:        "mp-test",
		Formula:   "Si",
		Cell:      [3][3]float64{{5.4, 0, 0}, {0, 5.4, 0}, {0, 0, 5.4}},
		Species:   []string{"Si", "Si"},
		Positions: [][3]float64{{0, 0, 0}, {1.35, 1.35, 1.35}},
	}
}

func TestEvaluateStrainRequestShape(t *testing.T) {
	mock := &mockEngineService{resp: &pb.EvaluateResponse{Converged: true}}
	c := NewClientWithService(mock)

	d := deform.ElasticitySet()[0] // e11 at +0.01
	_, err := c.Evaluate(context.Background(), testStructure(), d, Tolerances{Fmax: 0.02, MaxSteps: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.lastReq
	if !req.FixCell {
		t.Fatal("strain relaxation must fix the cell")
	}
	if len(req.Strain) != 9 || req.Strain[0] != 0.01 {
		t.Fatalf("unexpected strain payload: %v", req.Strain)
	}
	if req.PressureGpa != 0 {
		t.Fatalf("strain request must not carry pressure, got %g", req.PressureGpa)
	}
	if req.Fmax != 0.02 || req.MaxSteps != 500 {
		t.Fatalf("tolerances not forwarded: fmax=%g steps=%d", req.Fmax, req.MaxSteps)
	}
}

func TestEvaluatePressureRequestShape(t *testing.T) {
	mock := &mockEngineService{resp: &pb.EvaluateResponse{Converged: true}}
	c := NewClientWithService(mock)

	d := deform.PressureSet()[2] // 30 GPa
	_, err := c.Evaluate(context.Background(), testStructure(), d, Tolerances{Fmax: 0.05, MaxSteps: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := mock.lastReq
	if req.FixCell {
		t.Fatal("pressure relaxation must not fix the cell")
	}
	if req.PressureGpa != 30 {
		t.Fatalf("expected 30 GPa, got %g", req.PressureGpa)
	}
	if len(req.Strain) != 0 {
		t.Fatalf("pressure request must not carry a strain tensor: %v", req.Strain)
	}
}

func TestEvaluateStressUnitConversion(t *testing.T) {
	// 0.00624150913 eV/Å³ is exactly 1 GPa.
	mock := &mockEngineService{resp: &pb.EvaluateResponse{
		Converged: true,
		Stress:    []float64{0.00624150913, 0, 0, 0, 0, 0, 0, 0, 0},
	}}
	c := NewClientWithService(mock)

	out, err := c.Evaluate(context.Background(), testStructure(), deform.ElasticitySet()[0], Tolerances{Fmax: 0.02, MaxSteps: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(out.StressGPa[0][0]-1.0) > 1e-6 {
		t.Fatalf("expected 1 GPa, got %g", out.StressGPa[0][0])
	}
}

func TestEvaluateRPCError(t *testing.T) {
	mock := &mockEngineService{err: errors.New("connection refused")}
	c := NewClientWithService(mock)

	_, err := c.Evaluate(context.Background(), testStructure(), deform.PressureSet()[0], Tolerances{Fmax: 0.05, MaxSteps: 500})
	if err == nil {
		t.Fatal("expected wrapped rpc error")
	}
}

func TestOutcomeVolume(t *testing.T) {
	o := Outcome{Cell: [3][3]float64{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}}
	if v := o.Volume(); math.Abs(v-8) > 1e-12 {
		t.Fatalf("expected volume 8, got %g", v)
	}
}
