package dto

type MonthArgs struct {
	Month int `validate:"min=1,max=12"`
}

type StatisticsResult struct {
	TotalSaleAmount   float64 `json:"totalSaleAmount"`
	TotalSoldItems    int64   `json:"totalSoldItems"`
	TotalNotSoldItems int64   `json:"totalNotSoldItems"`
}

type BarChartBucket struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type CombinedResult struct {
	Transactions ListTransactionsResult `json:"transactions"`
	Statistics   StatisticsResult       `json:"statistics"`
	BarChart     []BarChartBucket       `json:"barChart"`
	PieChart     []CategoryCount        `json:"pieChart"`
}
