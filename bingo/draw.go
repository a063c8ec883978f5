package bingo

import "math/rand"

// DrawSequence returns the balls 1..75 in a shuffled order.
func DrawSequence(seed int64) []int {
	nums := make([]int, MaxBall)
	for i := range nums {
		nums[i] = i + 1
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(nums), func(i, j int) { nums[i], nums[j] = nums[j], nums[i] })
	return nums
}

// RemainingBalls returns the balls not yet drawn, ascending.
func RemainingBalls(drawn []int) []int {
	used := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		used[n] = true
	}
	out := make([]int, 0, MaxBall-len(drawn))
	for n := 1; n <= MaxBall; n++ {
		if !used[n] {
			out = append(out, n)
		}
	}
	return out
}
