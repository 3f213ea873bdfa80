package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	p, err := NewPool("test", DefaultPool, DefaultPoolConfig())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer p.Release()

	if p.Name() != "test" {
		t.Errorf("unexpected pool name: %s", p.Name())
	}
	if p.Type() != DefaultPool {
		t.Errorf("unexpected pool type: %s", p.Type())
	}
	if p.Cap() != 1000 {
		t.Errorf("unexpected capacity: %d", p.Cap())
	}
}

func TestPoolSubmit(t *testing.T) {
	p, err := NewPool("test", DefaultPool, &Config{
		Capacity:       10,
		ExpiryDuration: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer p.Release()

	var counter atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		})
		if err != nil {
			t.Errorf("failed to submit task: %v", err)
			wg.Done()
		}
	}

	wg.Wait()

	if counter.Load() != 100 {
		t.Errorf("expected 100 executed tasks, got %d", counter.Load())
	}
}

func TestPoolSubmitWithContext(t *testing.T) {
	p, err := NewPool("test", DefaultPool, &Config{
		Capacity:       5,
		ExpiryDuration: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer p.Release()

	var executed atomic.Bool
	err = p.SubmitWithContext(context.Background(), func() {
		executed.Store(true)
	})
	if err != nil {
		t.Errorf("failed to submit task: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if !executed.Load() {
		t.Error("task did not run")
	}

	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.SubmitWithContext(canceledCtx, func() {
		t.Error("task must not run on a canceled context")
	})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPoolPanicRecovery(t *testing.T) {
	var panicCaught atomic.Bool

	p, err := NewPool("test", DefaultPool, &Config{
		Capacity:       5,
		ExpiryDuration: 5 * time.Second,
		PanicHandler: func(r interface{}) {
			panicCaught.Store(true)
		},
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer p.Release()

	err = p.Submit(func() {
		panic("boom")
	})
	if err != nil {
		t.Errorf("failed to submit task: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if !panicCaught.Load() {
		t.Error("panic was not recovered")
	}
}

func TestPoolClosed(t *testing.T) {
	p, err := NewPool("test", DefaultPool, &Config{
		Capacity:       5,
		ExpiryDuration: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	p.Release()

	err = p.Submit(func() {
		t.Error("task must not run on a released pool")
	})
	if err != ErrPoolClosed {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
}

func TestManager(t *testing.T) {
	mgr := NewManager()
	defer func() {
		_ = mgr.Close()
	}()

	err := mgr.Register("test-pool", DefaultPool, &Config{
		Capacity:       10,
		ExpiryDuration: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to register pool: %v", err)
	}

	err = mgr.Register("test-pool", DefaultPool, DefaultPoolConfig())
	if err == nil {
		t.Error("duplicate registration must fail")
	}

	p, err := mgr.Get("test-pool")
	if err != nil {
		t.Errorf("failed to get pool: %v", err)
	}
	if p == nil {
		t.Error("pool must not be nil")
	}

	_, err = mgr.Get("non-existent")
	if err == nil {
		t.Error("getting an unknown pool must fail")
	}

	var executed atomic.Bool
	err = mgr.Submit("test-pool", func() {
		executed.Store(true)
	})
	if err != nil {
		t.Errorf("failed to submit task: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if !executed.Load() {
		t.Error("task did not run")
	}

	if got := len(mgr.List()); got != 1 {
		t.Errorf("expected 1 registered pool, got %d", got)
	}

	stats := mgr.Stats()
	if len(stats) != 1 {
		t.Errorf("expected stats for 1 pool, got %d", len(stats))
	}
	if info, ok := stats["test-pool"]; !ok || info.Capacity != 10 {
		t.Errorf("unexpected stats entry: %+v", info)
	}
}

func TestManagerRegisterWithType(t *testing.T) {
	mgr := NewManager()
	defer func() {
		_ = mgr.Close()
	}()

	if err := mgr.RegisterWithType(TimeoutPool, TimeoutPoolConfig()); err != nil {
		t.Fatalf("failed to register typed pool: %v", err)
	}

	p, err := mgr.GetByType(TimeoutPool)
	if err != nil {
		t.Fatalf("failed to get typed pool: %v", err)
	}
	if p.Type() != TimeoutPool {
		t.Errorf("unexpected pool type: %s", p.Type())
	}
}

func TestGlobalPool(t *testing.T) {
	ResetGlobal()

	if err := InitGlobal(); err != nil {
		t.Fatalf("failed to initialize global pools: %v", err)
	}
	defer func() {
		_ = CloseGlobal()
	}()

	mgr := GetGlobal()
	if mgr == nil {
		t.Fatal("global manager must not be nil")
	}

	pools := mgr.List()
	expected := []string{
		string(DefaultPool),
		string(HealthCheckPool),
		string(TimeoutPool),
	}
	if len(pools) != len(expected) {
		t.Errorf("expected %d standard pools, got %d", len(expected), len(pools))
	}

	for _, typ := range []Type{DefaultPool, HealthCheckPool, TimeoutPool} {
		if _, err := GetByType(typ); err != nil {
			t.Errorf("standard pool %q not registered: %v", typ, err)
		}
	}

	var executed atomic.Bool
	err := Submit(func() {
		executed.Store(true)
	})
	if err != nil {
		t.Errorf("failed to submit task: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if !executed.Load() {
		t.Error("task did not run")
	}
}

func TestPoolNonblocking(t *testing.T) {
	p, err := NewPool("test", DefaultPool, &Config{
		Capacity:       1,
		ExpiryDuration: 5 * time.Second,
		Nonblocking:    true,
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer p.Release()

	done := make(chan struct{})
	err = p.Submit(func() {
		<-done
	})
	if err != nil {
		t.Errorf("failed to submit task: %v", err)
	}

	err = p.Submit(func() {
		t.Error("saturated nonblocking pool must not run the task")
	})
	if err == nil {
		t.Error("saturated nonblocking pool must reject the task")
	}

	close(done)
}

func BenchmarkPoolSubmit(b *testing.B) {
	p, _ := NewPool("bench", DefaultPool, &Config{
		Capacity:       1000,
		ExpiryDuration: 5 * time.Second,
		PreAlloc:       true,
	})
	defer p.Release()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = p.Submit(func() {})
		}
	})
}
