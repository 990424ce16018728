package repository

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"bikeshare-go/internal/model"
)

// Store 内存中的数据集缓存，整体替换
type Store struct {
	mu      sync.RWMutex
	current *model.Dataset
	version int64
}

// Datasets 全局数据集缓存
var Datasets = NewStore()

func NewStore() *Store {
	empty := &model.Dataset{Records: []model.DailyRecord{}, Report: model.LoadReport{Source: EmptySource}}
	empty.Fingerprint = Fingerprint(empty)
	return &Store{current: empty}
}

// Replace 替换当前数据集，写入版本号与内容指纹
func (s *Store) Replace(ds *model.Dataset) *model.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(ds)
}

// ReplaceUnless 在同一把锁内检查当前数据集，skip 返回 true 时不替换
func (s *Store) ReplaceUnless(skip func(current *model.Dataset) bool, ds *model.Dataset) (*model.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if skip(s.current) {
		return s.current, false
	}
	return s.swap(ds), true
}

func (s *Store) swap(ds *model.Dataset) *model.Dataset {
	s.version++
	ds.Version = s.version
	ds.LoadedAt = time.Now()
	ds.Fingerprint = Fingerprint(ds)
	s.current = ds
	return ds
}

// Current 返回当前数据集，调用方只读
func (s *Store) Current() *model.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Fingerprint 按来源与全部记录计算 fnv-64a 指纹，与进程内版本号无关
func Fingerprint(ds *model.Dataset) string {
	h := fnv.New64a()
	h.Write([]byte(ds.Report.Source))
	var buf [8]byte
	put := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	put(int64(len(ds.Records)))
	for _, r := range ds.Records {
		put(r.Date.Unix())
		put(int64(r.Weekday))
		put(int64(r.Weather))
		put(int64(r.Count))
		put(int64(r.Casual))
		put(int64(r.Registered))
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
