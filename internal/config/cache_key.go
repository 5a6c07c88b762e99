package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserAccessKey returns the cache key for a user's memoized effective access
func (r *CacheKeyStruct) UserAccessKey(userID string) string {
	return fmt.Sprintf("access:user:%s", userID)
}

// AcademyAttendanceChannel returns the Redis PubSub channel for one academy's attendance events
func (r *CacheKeyStruct) AcademyAttendanceChannel(academyID string) string {
	return fmt.Sprintf("academy:%s:attendance", academyID)
}

// AttendanceChannelPattern matches every academy attendance channel (platform admin stream)
func (r *CacheKeyStruct) AttendanceChannelPattern() string {
	return "academy:*:attendance"
}

var CacheKey = NewCacheKeyStruct()
