package utils

import (
	"log"
	"time"
)

// GetShanghaiTimeLocation returns the Asia/Shanghai location used for all
// market timestamps.
func GetShanghaiTimeLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

// TimeNowShanghai returns the current time in the Asia/Shanghai timezone.
func TimeNowShanghai() time.Time {
	return time.Now().In(GetShanghaiTimeLocation())
}
