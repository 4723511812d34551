// Package chart рисует PNG к сигналу: цена закрытия и уровни входа, стопа и тейка.
package chart

import (
	"bytes"
	"math"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"signal_bot/internal/models"
)

const (
	width  = 1500
	height = 750
)

// Render возвращает PNG с графиком close и горизонталями entry/SL/TP.
func Render(symbol, tf string, series models.CandleSeries, sig models.Signal) ([]byte, error) {
	xs := make([]float64, 0, len(series))
	ys := make([]float64, 0, len(series))
	for i, c := range series {
		if math.IsNaN(c.Close) || math.IsInf(c.Close, 0) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, c.Close)
	}
	if len(xs) < 2 {
		return nil, errors.Errorf("chart %s %s: need at least 2 closes, got %d", symbol, tf, len(xs))
	}

	span := []float64{xs[0], xs[len(xs)-1]}
	graph := gochart.Chart{
		Title:  symbol + " " + tf,
		Width:  width,
		Height: height,
		XAxis:  gochart.XAxis{Name: "Index"},
		YAxis:  gochart.YAxis{Name: "Price"},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "close",
				XValues: xs,
				YValues: ys,
				Style:   gochart.Style{StrokeColor: drawing.ColorBlue, StrokeWidth: 1.5},
			},
			level("entry", span, sig.Entry, drawing.ColorBlack, []float64{8, 4}),
			level("SL", span, sig.StopLoss, drawing.ColorRed, []float64{2, 3}),
			level("TP", span, sig.TakeProfit, drawing.ColorGreen, []float64{2, 3}),
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, errors.Wrapf(err, "render chart %s %s", symbol, tf)
	}
	return buf.Bytes(), nil
}

func level(name string, span []float64, price float64, color drawing.Color, dash []float64) gochart.ContinuousSeries {
	return gochart.ContinuousSeries{
		Name:    name,
		XValues: span,
		YValues: []float64{price, price},
		Style: gochart.Style{
			StrokeColor:     color,
			StrokeWidth:     1,
			StrokeDashArray: dash,
		},
	}
}
