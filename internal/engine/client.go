// Package engine wraps the gRPC connection to the Python ASE relaxation
// service and converts between wire units (ASE's eV/Å³) and the GPa the
// rest of the pipeline works in.
package engine

import (
	"context"
	"fmt"

	pb "github.com/JonathanSchmidt1/ml-peg/gen/engine"
	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// #region constants

// evPerA3ToGPa converts a stress from eV/Å³ to GPa (1 GPa = 0.00624150913 eV/Å³).
const evPerA3ToGPa = 160.21766208

// #endregion

// #region client-struct

// Client wraps the gRPC connection to the relaxation engine service.
type Client struct {
	conn   *grpc.ClientConn
	client pb.RelaxationEngineClient
}

// #endregion

// #region constructor

// NewClient connects to the Python relaxation engine gRPC server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: pb.NewRelaxationEngineClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc pb.RelaxationEngineClient) *Client {
	return &Client{client: svc}
}

// #endregion

// #region close

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion

// #region evaluate

// Evaluate sends one (structure, deformation) relaxation to the engine.
// For strain deformations the engine applies the tensor to the cell and
// relaxes positions only; for pressure deformations it relaxes cell and
// positions under the scalar external pressure.
func (c *Client) Evaluate(ctx context.Context, s crystal.Structure, d deform.Deformation, tol Tolerances) (Outcome, error) {
	req := &pb.EvaluateRequest{
		StructureId: s.ID,
		Cell:        flatten3x3(s.Cell),
		Species:     s.Species,
		Positions:   flattenVec3(s.Positions),
		Fmax:        tol.Fmax,
		MaxSteps:    int32(tol.MaxSteps),
	}
	switch d.Kind {
	case deform.KindStrain:
		req.Strain = flatten3x3(d.Tensor)
		req.FixCell = true
	case deform.KindPressure:
		req.PressureGpa = d.PressureGPa
	default:
		return Outcome{}, fmt.Errorf("unknown deformation kind %q", d.Kind)
	}

	resp, err := c.client.Evaluate(ctx, req)
	if err != nil {
		return Outcome{}, fmt.Errorf("evaluate rpc %s/%s: %w", s.ID, d.ID(), err)
	}

	out := Outcome{
		Cell:      unflatten3x3(resp.Cell),
		Positions: unflattenVec3(resp.Positions),
		Energy:    resp.Energy,
		Forces:    unflattenVec3(resp.Forces),
		Converged: resp.Converged,
		StepsUsed: int(resp.StepsUsed),
		Err:       resp.Error,
	}
	stress := unflatten3x3(resp.Stress)
	for i := range stress {
		for j := range stress[i] {
			out.StressGPa[i][j] = stress[i][j] * evPerA3ToGPa
		}
	}
	return out, nil
}

// #endregion

// #region codec-helpers

func flatten3x3(m [3][3]float64) []float64 {
	out := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out = append(out, m[i][j])
		}
	}
	return out
}

func unflatten3x3(v []float64) [3][3]float64 {
	var m [3][3]float64
	for i := 0; i < 3 && i*3 < len(v); i++ {
		for j := 0; j < 3 && i*3+j < len(v); j++ {
			m[i][j] = v[i*3+j]
		}
	}
	return m
}

func flattenVec3(ps [][3]float64) []float64 {
	out := make([]float64, 0, 3*len(ps))
	for _, p := range ps {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

func unflattenVec3(v []float64) [][3]float64 {
	n := len(v) / 3
	out := make([][3]float64, n)
	for i := 0; i < n; i++ {
		out[i] = [3]float64{v[i*3], v[i*3+1], v[i*3+2]}
	}
	return out
}

// #endregion
