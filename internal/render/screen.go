package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pdrpinto/gridastar"
)

// cellWidth is how many terminal columns one grid cell takes, so cells
// look roughly square.
const cellWidth = 2

var (
	wallColor     = tcell.NewRGBColor(50, 50, 50)
	visitedColor  = tcell.NewRGBColor(0, 0, 255)
	frontierColor = tcell.NewRGBColor(255, 255, 0)
	pathColor     = tcell.NewRGBColor(0, 255, 255)
	startColor    = tcell.NewRGBColor(0, 255, 0)
	goalColor     = tcell.NewRGBColor(255, 0, 0)
	currentColor  = tcell.NewRGBColor(255, 0, 255)
	openColor     = tcell.NewRGBColor(10, 10, 10)
)

var screenStyles = map[Kind]tcell.Style{
	KindOpen:     tcell.StyleDefault.Background(openColor).Foreground(tcell.ColorGray),
	KindWall:     tcell.StyleDefault.Background(wallColor).Foreground(tcell.ColorDarkGray),
	KindVisited:  tcell.StyleDefault.Background(visitedColor).Foreground(tcell.ColorWhite),
	KindFrontier: tcell.StyleDefault.Background(frontierColor).Foreground(tcell.ColorBlack),
	KindPath:     tcell.StyleDefault.Background(pathColor).Foreground(tcell.ColorBlack),
	KindCurrent:  tcell.StyleDefault.Background(currentColor).Foreground(tcell.ColorWhite),
	KindStart:    tcell.StyleDefault.Background(startColor).Foreground(tcell.ColorBlack).Bold(true),
	KindGoal:     tcell.StyleDefault.Background(goalColor).Foreground(tcell.ColorBlack).Bold(true),
}

var textStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)

// Painter draws a Scene and the latest report onto a tcell screen. Cells
// outside the screen are clipped.
type Painter struct {
	screen tcell.Screen
	scene  Scene
}

func NewPainter(screen tcell.Screen, scene Scene) *Painter {
	return &Painter{screen: screen, scene: scene}
}

// SetScene swaps the grid, e.g. after regenerating.
func (p *Painter) SetScene(scene Scene) { p.scene = scene }

// Draw repaints the whole screen. lines are printed below the grid.
func (p *Painter) Draw(r *gridastar.StepReport, lines ...string) {
	p.screen.Clear()
	width, height := p.screen.Size()
	onPath := pathSet(r)

	rows, cols := p.scene.Grid.Rows(), p.scene.Grid.Cols()
	for row := 0; row < rows && row < height; row++ {
		for col := 0; col < cols && col*cellWidth < width; col++ {
			kind := p.scene.Classify(gridastar.Cell{Row: row, Col: col}, r, onPath)
			style := screenStyles[kind]
			x := col * cellWidth
			p.screen.SetContent(x, row, textRunes[kind], nil, style)
			if x+1 < width {
				p.screen.SetContent(x+1, row, ' ', nil, style)
			}
		}
	}

	for i, line := range lines {
		y := rows + i
		if y >= height {
			break
		}
		p.drawText(0, y, line, width)
	}
	p.screen.Show()
}

func (p *Painter) drawText(x, y int, s string, width int) {
	for _, ch := range s {
		if x >= width {
			return
		}
		p.screen.SetContent(x, y, ch, nil, textStyle)
		x++
	}
}
