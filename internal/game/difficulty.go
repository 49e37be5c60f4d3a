package game

type Difficulty struct {
	Name    string
	Msd     string
	Section string // The raw note data, used to identify the chart
}

// ChartType is the only .sm chart type with four lanes
const ChartType = "dance-single"
