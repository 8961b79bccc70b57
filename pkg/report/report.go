package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/limaJavier/satheuristics/pkg/genetic"
	"github.com/limaJavier/satheuristics/pkg/localsearch"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// Chart file names
const (
	TimeVsFlips          = "time_vs_flips.png"
	TimeVsSatisfied      = "time_vs_satisfied.png"
	RandomWalkSatisfied  = "random_walk_satisfied.png"
	GreedySatisfied      = "choose_and_flip_satisfied.png"
	MoveComparison       = "random_walk_vs_choose_and_flip.png"
	TimeVsGenerations    = "time_vs_generations.png"
	GenerationsVsFitness = "generations_vs_fitness.png"
	TimeVsFitness        = "time_vs_fitness.png"
)

// PlotLocalSearch draws the run-time distribution charts of the first restart
// into directory and returns the paths of the written files
func PlotLocalSearch(result localsearch.Result, directory string) ([]string, error) {
	if len(result.Restarts) == 0 {
		return nil, errors.New("result holds no restarts")
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, errors.Wrapf(err, "cannot create plot directory %q", directory)
	}
	samples := result.Restarts[0].Samples

	charts := []struct {
		file   string
		title  string
		xLabel string
		yLabel string
		points plotter.XYs
	}{
		{
			TimeVsFlips, "RTD graph for Time VS Flips", "Time (s)", "Flips",
			lo.Map(samples, func(sample localsearch.Sample, i int) plotter.XY {
				return plotter.XY{X: sample.Elapsed.Seconds(), Y: float64(i + 1)}
			}),
		},
		{TimeVsSatisfied, "RTD graph for Time VS Number of satisfied clauses", "Time (s)", "Number of Satisfied Clauses", samplePoints(samples)},
		{RandomWalkSatisfied, "RTD graph for Random Walk VS Number of satisfied clauses", "Time (s)", "Number of Satisfied Clauses", samplePoints(result.RandomWalk)},
		{GreedySatisfied, "RTD graph for Choose and Flip VS Number of satisfied clauses", "Time (s)", "Number of Satisfied Clauses", samplePoints(result.Greedy)},
	}

	paths := make([]string, 0, len(charts)+1)
	for _, chart := range charts {
		path := filepath.Join(directory, chart.file)
		if err := saveLine(chart.title, chart.xLabel, chart.yLabel, chart.points, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	path := filepath.Join(directory, MoveComparison)
	if err := saveMoveComparison(result, path); err != nil {
		return nil, err
	}
	return append(paths, path), nil
}

// PlotGenetic draws the fitness evolution charts into directory and returns
// the paths of the written files
func PlotGenetic(result genetic.Result, directory string) ([]string, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, errors.Wrapf(err, "cannot create plot directory %q", directory)
	}

	timeVsGenerations := make(plotter.XYs, len(result.Fitness))
	generationsVsFitness := make(plotter.XYs, len(result.Fitness))
	timeVsFitness := make(plotter.XYs, len(result.Fitness))
	for i, fitness := range result.Fitness {
		elapsed := result.Elapsed[i].Seconds()
		timeVsGenerations[i] = plotter.XY{X: elapsed, Y: float64(i + 1)}
		generationsVsFitness[i] = plotter.XY{X: float64(i + 1), Y: float64(fitness)}
		timeVsFitness[i] = plotter.XY{X: elapsed, Y: float64(fitness)}
	}

	charts := []struct {
		file   string
		title  string
		xLabel string
		yLabel string
		points plotter.XYs
	}{
		{TimeVsGenerations, "RTD graph for Time VS Generations", "Time (s)", "Generations", timeVsGenerations},
		{GenerationsVsFitness, "RTD graph for Generations VS Fitness", "Generation", "Fitness", generationsVsFitness},
		{TimeVsFitness, "RTD graph for Time VS Fitness", "Time (s)", "Fitness", timeVsFitness},
	}

	paths := make([]string, 0, len(charts))
	for _, chart := range charts {
		path := filepath.Join(directory, chart.file)
		if err := saveLine(chart.title, chart.xLabel, chart.yLabel, chart.points, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func samplePoints(samples []localsearch.Sample) plotter.XYs {
	return lo.Map(samples, func(sample localsearch.Sample, _ int) plotter.XY {
		return plotter.XY{X: sample.Elapsed.Seconds(), Y: float64(sample.Satisfied)}
	})
}

func saveLine(title, xLabel, yLabel string, points plotter.XYs, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	// An empty series still produces a chart with axes only
	if len(points) > 0 {
		line, err := plotter.NewLine(points)
		if err != nil {
			return errors.Wrapf(err, "cannot build line for %q", title)
		}
		p.Add(line)
	}

	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "cannot save plot %q", path)
	}
	return nil
}

// saveMoveComparison draws a bar chart with the max and min satisfied counts of each move kind
func saveMoveComparison(result localsearch.Result, path string) error {
	extremes := func(samples []localsearch.Sample) (float64, float64) {
		if len(samples) == 0 {
			return 0, 0
		}
		counts := lo.Map(samples, func(sample localsearch.Sample, _ int) int { return sample.Satisfied })
		return float64(slices.Max(counts)), float64(slices.Min(counts))
	}
	maxWalk, minWalk := extremes(result.RandomWalk)
	maxGreedy, minGreedy := extremes(result.Greedy)

	p := plot.New()
	p.Title.Text = "RTD graph for Random Walk vs Choose and Flip"
	p.Y.Label.Text = "Number of Satisfied Clauses"

	bars, err := plotter.NewBarChart(plotter.Values{maxWalk, maxGreedy, minWalk, minGreedy}, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "cannot build bar chart")
	}
	p.Add(bars)
	p.NominalX(
		fmt.Sprintf("Max Random Walk (%d)", len(result.RandomWalk)),
		fmt.Sprintf("Max Choose and Flip (%d)", len(result.Greedy)),
		"Min Random Walk",
		"Min Choose and Flip",
	)

	if err := p.Save(width*1.5, height, path); err != nil {
		return errors.Wrapf(err, "cannot save plot %q", path)
	}
	return nil
}

// WriteLocalSearchCSV writes one record per flip of every restart
func WriteLocalSearchCSV(w io.Writer, result localsearch.Result) error {
	writer := csv.NewWriter(w)

	header := []string{"Restart", "Flip", "Elapsed(s)", "Satisfied", "Best"}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "cannot write CSV header")
	}

	for restartIndex, restart := range result.Restarts {
		for flip, sample := range restart.Samples {
			record := []string{
				fmt.Sprintf("%d", restartIndex),
				fmt.Sprintf("%d", flip),
				fmt.Sprintf("%f", sample.Elapsed.Seconds()),
				fmt.Sprintf("%d", sample.Satisfied),
				fmt.Sprintf("%d", restart.Best),
			}
			if err := writer.Write(record); err != nil {
				return errors.Wrap(err, "cannot write CSV record")
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteGeneticCSV writes one record per generation
func WriteGeneticCSV(w io.Writer, result genetic.Result) error {
	writer := csv.NewWriter(w)

	header := []string{"Generation", "Elapsed(s)", "Fitness"}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "cannot write CSV header")
	}

	for generation, fitness := range result.Fitness {
		record := []string{
			fmt.Sprintf("%d", generation+1),
			fmt.Sprintf("%f", result.Elapsed[generation].Seconds()),
			fmt.Sprintf("%d", fitness),
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "cannot write CSV record")
		}
	}

	writer.Flush()
	return writer.Error()
}
