package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rsarvar1a/hivemind/pkg/eval"
	"github.com/rsarvar1a/hivemind/pkg/fault"
	"github.com/seekerror/stdlib/pkg/lang"
)

var timeRE = regexp.MustCompile(`^(?P<h>[0-9]{2,3}):(?P<m>[0-9]{2}):(?P<s>[0-9]{2})$`)

// Args control a single search: a fixed depth or a wall-clock budget.
type Args struct {
	Depth lang.Optional[int]
	Time  lang.Optional[time.Duration]
}

// DepthLimit returns the hard depth limit for these args.
func (a Args) DepthLimit() int {
	if d, ok := a.Depth.V(); ok {
		return min(d, eval.MaximumPly)
	}
	return eval.MaximumPly
}

func (a Args) String() string {
	var ret []string
	if d, ok := a.Depth.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", d))
	}
	if t, ok := a.Time.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", t))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// ParseArgs parses search options in the form "depth <n>" or
// "time hh:mm:ss".
func ParseArgs(args []string) (Args, error) {
	base := fault.ForParse("SearchArgs", strings.Join(args, " "))

	if len(args) < 2 {
		err := fault.New(fault.ParseError, "Search options require a mode (time or depth) and a corresponding value.")
		return Args{}, fault.Chain(err, base)
	}

	switch args[0] {
	case "time":
		caps := timeRE.FindStringSubmatch(args[1])
		if caps == nil {
			err := fault.New(fault.InvalidTime, "Expected duration in the form of hh:mm:ss.")
			return Args{}, fault.Chain(fault.Chain(err, fault.ForParse("Duration", args[1])), base)
		}
		hrs, _ := strconv.Atoi(caps[1])
		mins, _ := strconv.Atoi(caps[2])
		secs, _ := strconv.Atoi(caps[3])

		budget := time.Duration(secs+60*mins+3600*hrs) * time.Second
		return Args{Time: lang.Some(budget)}, nil

	case "depth":
		depth, err := strconv.Atoi(args[1])
		if err != nil || depth < 0 || depth > 255 {
			return Args{}, fault.Chain(fault.ForParse("Depth", args[1]), base)
		}
		return Args{Depth: lang.Some(depth)}, nil

	default:
		return Args{}, base
	}
}
