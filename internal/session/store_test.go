package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smartystreets/goconvey/convey"

	"vibecap/internal/config"
	"vibecap/internal/model/caption"
	"vibecap/internal/pkg/cache"
	"vibecap/internal/pkg/id"
)

func sampleState() State {
	s := apply(Initial(),
		SelectFile{File: &caption.ImageFile{Name: "a.png", ContentType: "image/png", Data: []byte{1, 2, 3}}},
		SelectVibe{Vibe: caption.VibeAdventurous},
		SetDescription{Text: "summit"},
		Submit{Kind: RequestGenerate},
		GenerateSucceeded{Seq: 1, Result: caption.Result{Caption: "C", Token: caption.NewSessionToken("B")}},
	)
	return s
}

var errAlreadyInFlight = errors.New("already in flight")

// submitConcurrently 多个调用方同时尝试进入请求中状态，返回成功次数
func submitConcurrently(ctx context.Context, store Store, key string, n int) int {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := store.Update(ctx, key, func(s State) (State, error) {
				if s.InFlight() {
					return s, errAlreadyInFlight
				}
				return Reduce(s, Submit{Kind: RequestGenerate}), nil
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()
	return success
}

// checkUpdate Store.Update 的公共行为
func checkUpdate(ctx context.Context, store Store, key string) {
	_, err := store.Update(ctx, key, func(s State) (State, error) { return s, nil })
	convey.So(err, convey.ShouldEqual, ErrNotFound)

	convey.So(store.Save(ctx, key, Initial()), convey.ShouldBeNil)

	next, err := store.Update(ctx, key, func(s State) (State, error) {
		return Reduce(s, SelectVibe{Vibe: caption.VibeSad}), nil
	})
	convey.So(err, convey.ShouldBeNil)
	convey.So(next.Vibe, convey.ShouldEqual, caption.VibeSad)

	cur, err := store.Update(ctx, key, func(s State) (State, error) {
		return Reduce(s, SelectVibe{Vibe: caption.VibeEnergetic}), errAlreadyInFlight
	})
	convey.So(err, convey.ShouldEqual, errAlreadyInFlight)
	convey.So(cur.Vibe, convey.ShouldEqual, caption.VibeSad)

	loaded, err := store.Load(ctx, key)
	convey.So(err, convey.ShouldBeNil)
	convey.So(loaded.Vibe, convey.ShouldEqual, caption.VibeSad)

	convey.So(submitConcurrently(ctx, store, key, 20), convey.ShouldEqual, 1)

	loaded, err = store.Load(ctx, key)
	convey.So(err, convey.ShouldBeNil)
	convey.So(loaded.InFlight(), convey.ShouldBeTrue)
	convey.So(loaded.RequestSeq, convey.ShouldEqual, 1)
}

func TestMemoryStore(t *testing.T) {
	convey.Convey("MemoryStore", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(2, time.Minute)

		_, err := store.Load(ctx, "missing")
		convey.So(err, convey.ShouldEqual, ErrNotFound)

		s := sampleState()
		convey.So(store.Save(ctx, "a", s), convey.ShouldBeNil)
		got, err := store.Load(ctx, "a")
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldResemble, s)

		convey.Convey("超过容量淘汰最久未用的会话", func() {
			convey.So(store.Save(ctx, "b", Initial()), convey.ShouldBeNil)
			convey.So(store.Save(ctx, "c", Initial()), convey.ShouldBeNil)
			_, err := store.Load(ctx, "a")
			convey.So(err, convey.ShouldEqual, ErrNotFound)
			convey.So(store.Len(), convey.ShouldEqual, 2)
		})

		convey.Convey("删除后不可读取", func() {
			convey.So(store.Delete(ctx, "a"), convey.ShouldBeNil)
			convey.So(store.Delete(ctx, "a"), convey.ShouldBeNil)
			_, err := store.Load(ctx, "a")
			convey.So(err, convey.ShouldEqual, ErrNotFound)
		})
	})

	convey.Convey("MemoryStore 原子更新", t, func() {
		checkUpdate(context.Background(), NewMemoryStore(8, time.Minute), "u")
	})

	convey.Convey("MemoryStore 过期", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(10, 20*time.Millisecond)
		convey.So(store.Save(ctx, "a", Initial()), convey.ShouldBeNil)
		time.Sleep(60 * time.Millisecond)
		_, err := store.Load(ctx, "a")
		convey.So(err, convey.ShouldEqual, ErrNotFound)
	})
}

// 需要本地 Redis：REDIS_ADDR=localhost:6379 go test ./internal/session -run TestRedisStore -v
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR 未设置，跳过 Redis 会话存储测试")
	}

	convey.Convey("RedisStore", t, func() {
		ctx := context.Background()
		rc, err := cache.NewRedisCache(&config.RedisConfig{Addr: addr})
		convey.So(err, convey.ShouldBeNil)
		defer rc.Close()

		store := NewRedisStore(rc, time.Minute)
		key := "test-" + id.New()
		defer store.Delete(ctx, key)

		_, err = store.Load(ctx, key)
		convey.So(err, convey.ShouldEqual, ErrNotFound)

		s := sampleState()
		convey.So(store.Save(ctx, key, s), convey.ShouldBeNil)

		got, err := store.Load(ctx, key)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldResemble, s)
		convey.So(got.Token.Value(), convey.ShouldEqual, "B")
		convey.So(got.File.Data, convey.ShouldResemble, []byte{1, 2, 3})

		convey.Convey("两个实例共享会话时只有一个能进入请求中状态", func() {
			// 第二个实例使用独立连接，模拟另一台服务器
			other := cache.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: addr}))
			defer other.Close()
			otherStore := NewRedisStore(other, time.Minute)

			key := "test-" + id.New()
			defer store.Delete(ctx, key)
			convey.So(store.Save(ctx, key, Initial()), convey.ShouldBeNil)

			var (
				wg     sync.WaitGroup
				mu     sync.Mutex
				counts []int
			)
			for _, st := range []Store{store, otherStore} {
				wg.Add(1)
				go func(st Store) {
					defer wg.Done()
					n := submitConcurrently(ctx, st, key, 10)
					mu.Lock()
					counts = append(counts, n)
					mu.Unlock()
				}(st)
			}
			wg.Wait()
			convey.So(counts[0]+counts[1], convey.ShouldEqual, 1)
		})

		convey.Convey("原子更新", func() {
			key := "test-" + id.New()
			defer store.Delete(ctx, key)
			checkUpdate(ctx, store, key)
		})
	})
}
