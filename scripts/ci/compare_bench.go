// Command compare_bench checks `go test -bench` output for the tree and
// search benchmarks against a stored baseline.
//
//	go test -run '^$' -bench . -count 5 ./internal/... | go run ./scripts/ci -baseline bench/baseline.txt -current -
//
// Each benchmark family has its own regression threshold. Repeated runs of
// one benchmark are reduced to their median before comparing.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	resultPattern = regexp.MustCompile(`^Benchmark(\w+)/(\S+?)(?:-\d+)?\s+\d+\s+(\d+(?:\.\d+)?)\s+ns/op`)
	pkgPattern    = regexp.MustCompile(`^pkg:\s+(\S+)`)
)

// defaultThresholds are the allowed slowdowns in percent per family. Tree
// builds hit the filesystem and are noisier than in-memory matching.
var defaultThresholds = map[string]float64{
	"TreeBuild":   25,
	"FuzzySearch": 15,
}

// result is one benchmark case, e.g. TreeBuild/large.
type result struct {
	family  string
	name    string
	pkg     string
	samples []float64
}

func (r *result) median() float64 {
	s := append([]float64(nil), r.samples...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// run holds every parsed case keyed by "Family/name".
type run map[string]*result

type row struct {
	name       string
	baselineNs float64
	currentNs  float64
	deltaPct   float64
	newCase    bool
	pass       bool
}

type familyReport struct {
	family    string
	threshold float64
	rows      []row
}

func (f familyReport) failed() bool {
	for _, r := range f.rows {
		if !r.pass {
			return true
		}
	}
	return false
}

// thresholdFlag parses "Family=pct" pairs, e.g. "TreeBuild=30,FuzzySearch=10".
type thresholdFlag map[string]float64

func (t thresholdFlag) String() string {
	parts := make([]string, 0, len(t))
	for family, pct := range t {
		parts = append(parts, fmt.Sprintf("%s=%g", family, pct))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (t thresholdFlag) Set(value string) error {
	for _, pair := range strings.Split(value, ",") {
		family, pct, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || family == "" {
			return fmt.Errorf("want Family=pct, got %q", pair)
		}
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid threshold for %s: %q", family, pct)
		}
		t[family] = v
	}
	return nil
}

func main() {
	thresholds := thresholdFlag{}
	for family, pct := range defaultThresholds {
		thresholds[family] = pct
	}
	baselinePath := flag.String("baseline", "", "baseline benchmark output")
	currentPath := flag.String("current", "-", "current benchmark output, - for stdin")
	writeBaseline := flag.String("write-baseline", "", "also copy the current output to this path")
	flag.Var(thresholds, "threshold", "per-family regression limits in percent, e.g. TreeBuild=30")
	flag.Parse()

	if *baselinePath == "" {
		fatalf("-baseline is required")
	}

	currentRaw, err := readInput(*currentPath)
	if err != nil {
		fatalf("read current: %v", err)
	}
	current, err := parseRun(strings.NewReader(currentRaw))
	if err != nil {
		fatalf("parse current: %v", err)
	}

	baseline := run{}
	if f, err := os.Open(*baselinePath); err == nil {
		baseline, err = parseRun(f)
		f.Close()
		if err != nil {
			fatalf("parse baseline: %v", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		fatalf("open baseline: %v", err)
	}

	reports, err := compare(baseline, current, thresholds)
	if err != nil {
		fatalf("compare: %v", err)
	}

	writeReport(os.Stdout, reports)
	if summary := os.Getenv("GITHUB_STEP_SUMMARY"); summary != "" {
		if err := appendReport(summary, reports); err != nil {
			fatalf("write step summary: %v", err)
		}
	}
	if *writeBaseline != "" {
		if err := os.WriteFile(*writeBaseline, []byte(currentRaw), 0o644); err != nil {
			fatalf("write baseline: %v", err)
		}
	}

	for _, r := range reports {
		if r.failed() {
			os.Exit(1)
		}
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// parseRun collects ns/op samples from benchmark output. Non-result lines
// such as goos, PASS, and ok are skipped.
func parseRun(r io.Reader) (run, error) {
	out := run{}
	pkg := ""
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if m := pkgPattern.FindStringSubmatch(line); m != nil {
			pkg = m[1]
			continue
		}
		m := resultPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ns, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return nil, fmt.Errorf("parse ns/op in %q: %w", line, err)
		}
		key := m[1] + "/" + m[2]
		res, ok := out[key]
		if !ok {
			res = &result{family: m[1], name: key, pkg: pkg}
			out[key] = res
		}
		res.samples = append(res.samples, ns)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// compare builds one report per thresholded family. Every family must have
// at least one case in current. Cases missing from the baseline pass and
// are marked new.
func compare(baseline, current run, thresholds map[string]float64) ([]familyReport, error) {
	families := make([]string, 0, len(thresholds))
	for family := range thresholds {
		families = append(families, family)
	}
	sort.Strings(families)

	reports := make([]familyReport, 0, len(families))
	for _, family := range families {
		report := familyReport{family: family, threshold: thresholds[family]}
		for key, cur := range current {
			if cur.family != family {
				continue
			}
			r := row{name: key, currentNs: cur.median(), pass: true}
			if base, ok := baseline[key]; ok {
				r.baselineNs = base.median()
				if r.baselineNs <= 0 {
					return nil, fmt.Errorf("non-positive baseline ns/op for %s", key)
				}
				r.deltaPct = (r.currentNs - r.baselineNs) / r.baselineNs * 100
				r.pass = r.deltaPct <= report.threshold
			} else {
				r.newCase = true
			}
			report.rows = append(report.rows, r)
		}
		if len(report.rows) == 0 {
			return nil, fmt.Errorf("no Benchmark%s results in current output", family)
		}
		sort.Slice(report.rows, func(i, j int) bool { return report.rows[i].name < report.rows[j].name })
		reports = append(reports, report)
	}
	return reports, nil
}

func writeReport(out io.Writer, reports []familyReport) {
	fmt.Fprintf(out, "## cli-files benchmarks\n\n")
	for _, rep := range reports {
		fmt.Fprintf(out, "### %s (max +%.0f%%)\n\n", rep.family, rep.threshold)
		fmt.Fprintf(out, "| Case | Baseline ns/op | Current ns/op | Delta | Result |\n")
		fmt.Fprintf(out, "|---|---:|---:|---:|---|\n")
		for _, r := range rep.rows {
			if r.newCase {
				fmt.Fprintf(out, "| %s | - | %.0f | - | NEW |\n", r.name, r.currentNs)
				continue
			}
			result := "PASS"
			if !r.pass {
				result = "FAIL"
			}
			fmt.Fprintf(out, "| %s | %.0f | %.0f | %+0.2f%% | %s |\n", r.name, r.baselineNs, r.currentNs, r.deltaPct, result)
		}
		fmt.Fprintln(out)
	}
}

func appendReport(path string, reports []familyReport) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	writeReport(f, reports)
	return f.Close()
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
