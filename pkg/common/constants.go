package common

const (
	SourceEastmoney = "eastmoney"
	SourceXueqiu    = "xueqiu"
	SourceSina      = "sina"

	HotStocksCacheKey = "market.hot_stocks"
	HotTopicsCacheKey = "market.hot_topics"
)
