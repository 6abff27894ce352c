package schedule

import "context"

// Task 长时间运行的后台任务, Run 在 ctx 取消后返回
type Task interface {
	Run(ctx context.Context) error
	Name() string
}
