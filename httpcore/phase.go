/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package httpcore

// Phase names the ordered steps of spec.md §4.6's phase engine.
type Phase int

const (
	PhasePostRead Phase = iota
	PhaseServerRewrite
	PhaseFindConfig
	PhaseRewrite
	PhasePostRewrite
	PhasePreAccess
	PhaseAccess
	PhasePostAccess
	PhasePreContent
	PhaseContent
	PhaseLog
	phaseCount
)

// Result is what a PhaseHandler returns, matching spec.md §4.6 exactly:
// OK advances to the next phase, Decline tries the next handler in the
// same phase, Again/Done yields (the request is re-entered later by an
// event), and any HTTP status short-circuits to error-page logic.
type Result struct {
	Code ResultCode
	// Status is meaningful only when Code == ResultStatus.
	Status int
}

// ResultCode is the handler outcome discriminator.
type ResultCode int

const (
	ResultOK ResultCode = iota
	ResultDecline
	ResultAgain
	ResultDone
	ResultStatus
)

// OK, Decline, Again, Done and StatusResult are convenience constructors.
func OK() Result           { return Result{Code: ResultOK} }
func Decline() Result      { return Result{Code: ResultDecline} }
func Again() Result        { return Result{Code: ResultAgain} }
func Done() Result         { return Result{Code: ResultDone} }
func StatusResult(s int) Result { return Result{Code: ResultStatus, Status: s} }

// PhaseHandler is one handler registered into a Phase. Module linkage
// (spec.md §9) models the source's per-module function-pointer-table
// entry as a plain Go function value stored in a static slice at
// registration time.
type PhaseHandler func(r *Request) Result

// Engine holds the ordered phase list and drives a Request through it,
// re-entrant across AGAIN/DONE yields: a request's PhaseIndex is advanced
// only on OK, so resuming the engine after an event re-runs the same
// phase's handler list from where FindHandler left off.
type Engine struct {
	phases [phaseCount][]PhaseHandler

	// ErrorPage is invoked when a handler short-circuits with a status
	// code; it must itself never yield (spec.md §7: "if error-page
	// generation itself fails, a fixed minimal response is sent").
	ErrorPage func(r *Request, status int)
}

// NewEngine returns an Engine with every phase empty.
func NewEngine() *Engine {
	return &Engine{}
}

// Register appends h to phase p's handler list, in registration order —
// the order handlers run within that phase.
func (e *Engine) Register(p Phase, h PhaseHandler) {
	e.phases[p] = append(e.phases[p], h)
}

// Run drives r through phases starting at r.PhaseIndex() until a handler
// yields (AGAIN/DONE) or every phase completes. It returns true once the
// request has run through PhaseLog, false if it yielded and must be
// re-entered later by an event.
func (e *Engine) Run(r *Request) (finished bool) {
	for {
		phase := Phase(r.PhaseIndex())
		if phase >= phaseCount {
			return true
		}

		res := e.runPhase(r, phase)
		switch res.Code {
		case ResultOK:
			r.SetPhaseIndex(int(phase) + 1)
			continue
		case ResultStatus:
			e.handleStatus(r, res.Status)
			return true
		case ResultAgain, ResultDone:
			return false
		}
	}
}

// runPhase runs every handler in phase in order; DECLINE tries the next
// handler, anything else short-circuits the phase.
func (e *Engine) runPhase(r *Request, phase Phase) Result {
	handlers := e.phases[phase]
	if len(handlers) == 0 {
		return OK()
	}
	for _, h := range handlers {
		res := h(r)
		if res.Code != ResultDecline {
			return res
		}
	}
	return OK()
}

func (e *Engine) handleStatus(r *Request, status int) {
	r.Status = status
	if e.ErrorPage != nil {
		e.ErrorPage(r, status)
	}
}
