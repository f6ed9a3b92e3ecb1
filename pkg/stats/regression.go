package stats

import "fmt"

// Line is y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// FitLine fits a line through (i, ys[i]) by ordinary least squares.
func FitLine(ys []float64) (Line, error) {
	n := len(ys)
	if n < 2 {
		return Line{}, fmt.Errorf("%w: need at least 2 points to fit a line, got %d", ErrInsufficientData, n)
	}

	var meanX, meanY float64
	for i, y := range ys {
		meanX += float64(i)
		meanY += y
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxy, sxx float64
	for i, y := range ys {
		dx := float64(i) - meanX
		sxy += dx * (y - meanY)
		sxx += dx * dx
	}

	slope := sxy / sxx
	return Line{Slope: slope, Intercept: meanY - slope*meanX}, nil
}
