package planner

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gomdp/planner/mdp"
)

// Params is a generic string-keyed solver configuration table (spec section
// 6), e.g. "n_iterations=200,depth=12,exploration_constant=1.4". Grounded on
// the teacher's internal/parameters.Params, but narrowed down to exactly the
// nine keys NewVanillaFromParams/NewDPWFromParams recognize, rather than
// carrying the teacher's generic bool|int|float32|float64|string parsing
// machinery unchanged.
type Params map[string]string

// NewParamsFromConfigString parses a comma-separated "key=value,..." string
// into a Params table. A bare key with no "=value" maps to "".
func NewParamsFromConfigString(config string) Params {
	p := make(Params)
	for _, part := range strings.Split(config, ",") {
		kv := strings.SplitN(part, "=", 2) // split on at most one '=', so values may contain '='
		if len(kv) == 1 {
			p[kv[0]] = ""
		} else {
			p[kv[0]] = kv[1]
		}
	}
	return p
}

// pop removes and returns key's raw value, reporting whether it was present.
func pop(p Params, key string) (string, bool) {
	v, ok := p[key]
	if ok {
		delete(p, key)
	}
	return v, ok
}

func popInt(p Params, key string, def int) (int, error) {
	v, ok := pop(p, key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, errors.Wrapf(err, "failed to parse %s=%q as int", key, v)
	}
	return n, nil
}

func popFloat32(p Params, key string, def float32) (float32, error) {
	v, ok := pop(p, key)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return def, errors.Wrapf(err, "failed to parse %s=%q as float", key, v)
	}
	return float32(f), nil
}

func popBool(p Params, key string, def bool) (bool, error) {
	v, ok := pop(p, key)
	if !ok {
		return def, nil
	}
	switch {
	case v == "" || strings.EqualFold(v, "true") || v == "1":
		return true, nil
	case strings.EqualFold(v, "false") || v == "0":
		return false, nil
	default:
		return def, errors.Errorf("failed to parse %s=%q as bool", key, v)
	}
}

// NewVanillaFromParams builds a Vanilla solver from a string-keyed
// configuration table, the way the teacher's mcts.NewFromParams builds a
// Searcher from ("c_puct", "max_traverses", ...) pairs. Recognized keys:
// "n_iterations", "depth", "exploration_constant", "keep_tree". Any
// remaining opts are applied after the params-derived ones, so a caller can
// still supply seams (init_N, init_Q, estimator) that have no string form.
// Recognized keys are popped from p; unrecognized keys are left untouched
// for the caller to inspect or reject.
func NewVanillaFromParams[S, A comparable](model mdp.Model[S, A], p Params, opts ...VanillaOption[S, A]) (*Vanilla[S, A], error) {
	defaults := &Vanilla[S, A]{nIterations: 100, depth: 20, c: 1.0, keepTree: true}

	nIterations, err := popInt(p, "n_iterations", defaults.nIterations)
	if err != nil {
		return nil, err
	}
	depth, err := popInt(p, "depth", defaults.depth)
	if err != nil {
		return nil, err
	}
	c, err := popFloat32(p, "exploration_constant", defaults.c)
	if err != nil {
		return nil, err
	}
	keepTree, err := popBool(p, "keep_tree", defaults.keepTree)
	if err != nil {
		return nil, err
	}

	allOpts := append([]VanillaOption[S, A]{
		WithIterations[S, A](nIterations),
		WithDepth[S, A](depth),
		WithExplorationConstant[S, A](c),
		WithKeepTree[S, A](keepTree),
	}, opts...)
	return NewVanilla(model, allOpts...)
}

// NewDPWFromParams is NewVanillaFromParams's DPW counterpart. Recognized
// keys additionally include "k_action", "alpha_action", "k_state",
// "alpha_state", "enable_action_pw".
func NewDPWFromParams[S, A comparable](model mdp.Model[S, A], p Params, opts ...DPWOption[S, A]) (*DPW[S, A], error) {
	defaults := &DPW[S, A]{
		nIterations: 100, depth: 20, c: 1.0,
		kAction: 2, alphaAction: 0.5,
		kState: 2, alphaState: 0.5,
		enableActionPW: true,
		keepTree:       true,
	}

	nIterations, err := popInt(p, "n_iterations", defaults.nIterations)
	if err != nil {
		return nil, err
	}
	depth, err := popInt(p, "depth", defaults.depth)
	if err != nil {
		return nil, err
	}
	c, err := popFloat32(p, "exploration_constant", defaults.c)
	if err != nil {
		return nil, err
	}
	kAction, err := popFloat32(p, "k_action", defaults.kAction)
	if err != nil {
		return nil, err
	}
	alphaAction, err := popFloat32(p, "alpha_action", defaults.alphaAction)
	if err != nil {
		return nil, err
	}
	kState, err := popFloat32(p, "k_state", defaults.kState)
	if err != nil {
		return nil, err
	}
	alphaState, err := popFloat32(p, "alpha_state", defaults.alphaState)
	if err != nil {
		return nil, err
	}
	enableActionPW, err := popBool(p, "enable_action_pw", defaults.enableActionPW)
	if err != nil {
		return nil, err
	}
	keepTree, err := popBool(p, "keep_tree", defaults.keepTree)
	if err != nil {
		return nil, err
	}

	allOpts := append([]DPWOption[S, A]{
		WithDPWIterations[S, A](nIterations),
		WithDPWDepth[S, A](depth),
		WithDPWExplorationConstant[S, A](c),
		WithActionWideningParams[S, A](kAction, alphaAction),
		WithStateWideningParams[S, A](kState, alphaState),
		WithActionWidening[S, A](enableActionPW),
		WithDPWKeepTree[S, A](keepTree),
	}, opts...)
	return NewDPW(model, allOpts...)
}
