package constant

import "strconv"

// 天气编码，对应 weathersit 列
const (
	WeatherClear     = 1
	WeatherCloudy    = 2
	WeatherLightRain = 3
	WeatherHeavyRain = 4
)

// WeatherOrder 天气视图的展示顺序
var WeatherOrder = []int{WeatherClear, WeatherCloudy, WeatherLightRain, WeatherHeavyRain}

var weatherNames = map[int]string{
	WeatherClear:     "Clear",
	WeatherCloudy:    "Cloudy",
	WeatherLightRain: "Light rain",
	WeatherHeavyRain: "Heavy rain",
}

// WeatherName 返回天气编码的英文名称
func WeatherName(code int) string {
	if name, ok := weatherNames[code]; ok {
		return name
	}
	return "Weather " + strconv.Itoa(code)
}

// WeatherMessageID 返回天气标签的 i18n 消息 ID
func WeatherMessageID(code int) string {
	return "weather." + strconv.Itoa(code)
}
