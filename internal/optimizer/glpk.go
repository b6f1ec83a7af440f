package optimizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukpank/go-glpk/glpk"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// Solver finds a minimum-cost assignment of a program's binary columns.
type Solver interface {
	Solve(ctx context.Context, p *Program) (*Solution, error)
}

// GLPKConfig tunes the GLPK call.
type GLPKConfig struct {
	Presolve bool
	MsgLevel string
}

// GLPKSolver solves programs with GLPK's simplex followed by branch-and-cut.
type GLPKSolver struct {
	cfg    GLPKConfig
	logger *zap.Logger
}

// NewGLPKSolver builds a GLPK-backed solver.
func NewGLPKSolver(cfg GLPKConfig, logger *zap.Logger) *GLPKSolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GLPKSolver{cfg: cfg, logger: logger}
}

// Solve runs a single blocking solve. The context is only consulted before the solver starts.
func (s *GLPKSolver) Solve(ctx context.Context, p *Program) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckFeasibility(p); err != nil {
		return nil, err
	}

	lp := glpk.New()
	defer lp.Delete()
	lp.SetProbName("timetable")
	lp.SetObjName("total_cost")
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	first := lp.AddCols(len(p.Variables))
	for i, v := range p.Variables {
		col := first + i
		lp.SetColName(col, p.ColumnName(i))
		lp.SetColKind(col, glpk.VarType(glpk.BV))
		lp.SetObjCoef(col, v.Cost)
	}

	firstRow := lp.AddRows(len(p.Constraints))
	for i, c := range p.Constraints {
		row := firstRow + i
		lp.SetRowName(row, c.Name)
		lp.SetRowBnds(row, glpk.BndsType(glpk.FX), c.Value, c.Value)
		// GLPK ignores index 0 of both slices.
		ind := make([]int32, 1, len(c.Columns)+1)
		val := make([]float64, 1, len(c.Columns)+1)
		for _, column := range c.Columns {
			ind = append(ind, int32(first+column))
			val = append(val, 1)
		}
		lp.SetMatRow(row, ind, val)
	}

	s.logger.Debug("solving timetable program",
		zap.Int("columns", len(p.Variables)),
		zap.Int("rows", len(p.Constraints)),
		zap.Bool("presolve", s.cfg.Presolve),
	)

	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(msgLevel(s.cfg.MsgLevel))
	if err := lp.Simplex(smcp); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrSolver, err, "simplex solver failed")
	}
	if st := lp.Status(); st == glpk.NOFEAS || st == glpk.INFEAS {
		return nil, appErrors.Clone(appErrors.ErrInfeasible, "linear relaxation has no feasible solution")
	}

	iocp := glpk.NewIocp()
	iocp.SetPresolve(s.cfg.Presolve)
	iocp.SetMsgLev(msgLevel(s.cfg.MsgLevel))
	if err := lp.Intopt(iocp); err != nil {
		if lp.MipStatus() == glpk.NOFEAS {
			return nil, appErrors.WrapAs(appErrors.ErrInfeasible, err, "")
		}
		return nil, appErrors.WrapAs(appErrors.ErrSolver, err, "integer solver failed")
	}

	sol := &Solution{Values: make([]float64, len(p.Variables))}
	switch status := lp.MipStatus(); status {
	case glpk.OPT:
		sol.Status = StatusOptimal
	case glpk.FEAS:
		sol.Status = StatusFeasible
	case glpk.NOFEAS:
		return nil, appErrors.Clone(appErrors.ErrInfeasible, "")
	default:
		return nil, appErrors.Clone(appErrors.ErrSolver, fmt.Sprintf("integer solver ended with status %v", status))
	}

	sol.Objective = lp.MipObjVal()
	for i := range p.Variables {
		sol.Values[i] = lp.MipColVal(first + i)
	}
	return sol, nil
}

// CheckFeasibility rejects programs that cannot satisfy both the per-subject and per-slot rows.
func CheckFeasibility(p *Program) error {
	subjects, slots := len(p.Catalog.Subjects), len(p.Catalog.Slots)
	if subjects != slots {
		return appErrors.Clone(appErrors.ErrInfeasible,
			fmt.Sprintf("no feasible schedule exists: %d subjects cannot fill %d time slots exactly once", subjects, slots))
	}
	return nil
}

func msgLevel(level string) glpk.MsgLev {
	switch strings.ToLower(level) {
	case "off":
		return glpk.MsgLev(glpk.MSG_OFF)
	case "on":
		return glpk.MsgLev(glpk.MSG_ON)
	case "all":
		return glpk.MsgLev(glpk.MSG_ALL)
	default:
		return glpk.MsgLev(glpk.MSG_ERR)
	}
}
