package task

// Pairs returns every ordered pair of tasks, with each task also paired
// with itself. Pairs are ordered by first task, then by second task, in
// the order the tasks are given.
func Pairs(tasks []string) [][]string {
	pairs := make([][]string, 0, len(tasks)*len(tasks))
	for _, first := range tasks {
		for _, second := range tasks {
			pairs = append(pairs, []string{first, second})
		}
	}
	return pairs
}
