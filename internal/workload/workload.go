// Package workload holds the deliberately expensive reference computations
// used to benchmark calculator backends. Both are pure and reentrant.
package workload

import "context"

// CumulativeFactorialSum returns 1! + 2! + ... + n!. Each factorial is
// recomputed from scratch, so the cost is quadratic in n. The sum is held
// in a float64 and reaches +Inf once n exceeds 170.
func CumulativeFactorialSum(n uint) float64 {
	var sum float64
	for i := uint(1); i <= n; i++ {
		fact := 1.0
		for j := uint(2); j <= i; j++ {
			fact *= float64(j)
		}
		sum += fact
	}
	return sum
}

// RecursiveFibonacci returns F(n) using naive double recursion. Running
// time grows exponentially with n.
func RecursiveFibonacci(n uint) uint {
	if n < 2 {
		return n
	}
	return RecursiveFibonacci(n-1) + RecursiveFibonacci(n-2)
}

// Run executes fn on its own goroutine and waits for it or for ctx. The
// workloads cannot be interrupted, so on cancellation the goroutine is
// left to finish in the background and its result is discarded.
func Run[T any](ctx context.Context, fn func() T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	done := make(chan T, 1)
	go func() {
		done <- fn()
	}()
	select {
	case v := <-done:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
