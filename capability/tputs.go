package capability

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/phoenix-tui/vterm"
)

// Tparm evaluates a terminfo parameterized string template against the
// given parameters, implementing the standard %-operator grammar:
// pushes (%p1-%p9, %{nn}, %'c'), dynamic/static variables (%Pa/%ga,
// %PA/%gA), arithmetic and bitwise operators (%+ %- %* %/ %m %& %| %^
// %! %~), comparisons (%= %> %<), logical and/or (%A %O), the %i
// 1-origin bump, %c/%s/%d/%o/%x/%X output conversions, and %?%t%e%;
// conditionals. Delay directives ($<N>, $<N*>, $<N/>) are recognized
// and stripped, not simulated — pacing is the caller's concern.
func Tparm(template string, params ...int) (string, error) {
	var p [9]int
	for i := 0; i < len(params) && i < 9; i++ {
		p[i] = params[i]
	}
	e := &evaluator{params: p}
	out, err := e.run(StripDelays(template))
	if err != nil {
		return "", fmt.Errorf("capability: evaluating %q: %w: %w", template, vterm.ErrEvaluationFailure, err)
	}
	return out, nil
}

// condFrame tracks one %? ... %; if-chain while scanning. curSuppressed
// is true while the segment currently being scanned (the condition
// expression, or a then/else branch) should neither execute side
// effects nor produce output.
type condFrame struct {
	parentSuppressed bool
	taken            bool
	curSuppressed    bool
}

type evaluator struct {
	params  [9]int
	dynamic [26]int
	static  [26]int
	stack   []int
	conds   []condFrame
}

func (e *evaluator) suppressed() bool {
	if len(e.conds) == 0 {
		return false
	}
	return e.conds[len(e.conds)-1].curSuppressed
}

func (e *evaluator) push(v int) { e.stack = append(e.stack, v) }

func (e *evaluator) pop() (int, error) {
	if len(e.stack) == 0 {
		return 0, fmt.Errorf("stack underflow")
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (e *evaluator) run(s string) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '%' {
			if !e.suppressed() {
				out.WriteByte(c)
			}
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("trailing %%")
		}
		op := s[i+1]
		i += 2
		suppressed := e.suppressed()

		switch op {
		case '%':
			if !suppressed {
				out.WriteByte('%')
			}
		case 'i':
			if !suppressed {
				e.params[0]++
				e.params[1]++
			}
		case 'c', 's', 'd', 'o', 'x', 'X':
			if suppressed {
				continue
			}
			v, err := e.pop()
			if err != nil {
				return "", err
			}
			switch op {
			case 'c':
				out.WriteByte(byte(v))
			case 's', 'd':
				out.WriteString(strconv.Itoa(v))
			case 'o':
				out.WriteString(strconv.FormatInt(int64(v), 8))
			case 'x':
				out.WriteString(strconv.FormatInt(int64(v), 16))
			case 'X':
				out.WriteString(strings.ToUpper(strconv.FormatInt(int64(v), 16)))
			}
		case 'p':
			if i >= len(s) {
				return "", fmt.Errorf("%%p missing index")
			}
			n := s[i] - '0'
			i++
			if suppressed {
				continue
			}
			if n < 1 || n > 9 {
				return "", fmt.Errorf("%%p index out of range")
			}
			e.push(e.params[n-1])
		case 'P':
			if i >= len(s) {
				return "", fmt.Errorf("%%P missing register")
			}
			reg := s[i]
			i++
			if suppressed {
				continue
			}
			v, err := e.pop()
			if err != nil {
				return "", err
			}
			if reg >= 'a' && reg <= 'z' {
				e.dynamic[reg-'a'] = v
			} else if reg >= 'A' && reg <= 'Z' {
				e.static[reg-'A'] = v
			}
		case 'g':
			if i >= len(s) {
				return "", fmt.Errorf("%%g missing register")
			}
			reg := s[i]
			i++
			if suppressed {
				continue
			}
			if reg >= 'a' && reg <= 'z' {
				e.push(e.dynamic[reg-'a'])
			} else if reg >= 'A' && reg <= 'Z' {
				e.push(e.static[reg-'A'])
			}
		case '\'':
			if i+1 >= len(s) || s[i+1] != '\'' {
				return "", fmt.Errorf("malformed %%'c'")
			}
			ch := s[i]
			i += 2
			if !suppressed {
				e.push(int(ch))
			}
		case '{':
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unterminated %%{")
			}
			numStr := s[i : i+end]
			i += end + 1
			if suppressed {
				continue
			}
			n, err := strconv.Atoi(numStr)
			if err != nil {
				return "", fmt.Errorf("bad integer constant: %w", err)
			}
			e.push(n)
		case 'l':
			if suppressed {
				continue
			}
			v, err := e.pop()
			if err != nil {
				return "", err
			}
			e.push(len(strconv.Itoa(v)))
		case '+', '-', '*', '/', 'm', '&', '|', '^':
			if suppressed {
				continue
			}
			b, err := e.pop()
			if err != nil {
				return "", err
			}
			a, err := e.pop()
			if err != nil {
				return "", err
			}
			switch op {
			case '+':
				e.push(a + b)
			case '-':
				e.push(a - b)
			case '*':
				e.push(a * b)
			case '/':
				if b == 0 {
					e.push(0)
				} else {
					e.push(a / b)
				}
			case 'm':
				if b == 0 {
					e.push(0)
				} else {
					e.push(a % b)
				}
			case '&':
				e.push(a & b)
			case '|':
				e.push(a | b)
			case '^':
				e.push(a ^ b)
			}
		case '=', '>', '<':
			if suppressed {
				continue
			}
			b, err := e.pop()
			if err != nil {
				return "", err
			}
			a, err := e.pop()
			if err != nil {
				return "", err
			}
			switch op {
			case '=':
				e.push(boolInt(a == b))
			case '>':
				e.push(boolInt(a > b))
			case '<':
				e.push(boolInt(a < b))
			}
		case 'A', 'O':
			if suppressed {
				continue
			}
			b, err := e.pop()
			if err != nil {
				return "", err
			}
			a, err := e.pop()
			if err != nil {
				return "", err
			}
			if op == 'A' {
				e.push(boolInt(a != 0 && b != 0))
			} else {
				e.push(boolInt(a != 0 || b != 0))
			}
		case '!':
			if suppressed {
				continue
			}
			v, err := e.pop()
			if err != nil {
				return "", err
			}
			e.push(boolInt(v == 0))
		case '~':
			if suppressed {
				continue
			}
			v, err := e.pop()
			if err != nil {
				return "", err
			}
			e.push(^v)
		case '?':
			e.conds = append(e.conds, condFrame{
				parentSuppressed: suppressed,
				curSuppressed:    suppressed,
			})
		case 't':
			if len(e.conds) == 0 {
				return "", fmt.Errorf("%%t without %%?")
			}
			frame := &e.conds[len(e.conds)-1]
			if frame.curSuppressed {
				// Condition expression was itself suppressed (an
				// ancestor branch is inactive); the then-branch stays
				// suppressed too.
				continue
			}
			v, err := e.pop()
			if err != nil {
				return "", err
			}
			if v != 0 {
				frame.taken = true
				frame.curSuppressed = false
			} else {
				frame.curSuppressed = true
			}
		case 'e':
			if len(e.conds) == 0 {
				return "", fmt.Errorf("%%e without %%?")
			}
			frame := &e.conds[len(e.conds)-1]
			switch {
			case frame.parentSuppressed:
				frame.curSuppressed = true
			case frame.taken:
				frame.curSuppressed = true
			default:
				frame.curSuppressed = false
			}
		case ';':
			if len(e.conds) == 0 {
				return "", fmt.Errorf("%%; without %%?")
			}
			e.conds = e.conds[:len(e.conds)-1]
		default:
			return "", fmt.Errorf("unsupported directive %%%c", op)
		}
	}
	if len(e.conds) != 0 {
		return "", fmt.Errorf("unterminated %%?")
	}
	return out.String(), nil
}

// StripDelays removes $<N>, $<N*> and $<N/> padding directives from a
// raw capability string, returning the plain text. Real hardware
// padding is obsolete for the virtual terminals this package targets.
func StripDelays(s string) string {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '$' && i+1 < len(s) && s[i+1] == '<' {
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				out.WriteByte(s[i])
				i++
				continue
			}
			i += end + 1
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}
