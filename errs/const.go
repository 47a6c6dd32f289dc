package errs

const (
	ErrCode_OK            = 0
	ErrCode_Unknown       = 1
	ErrCode_OverHorizon   = 100 // 超出时间轮可表示范围
	ErrCode_ClockClosed   = 101
	ErrCode_TaskQueueFull = 102
	ErrCode_BadCron       = 103
	ErrCode_Config        = 104
)

var (
	Unknown       = CreateCodeError(ErrCode_Unknown, "UNKNOWN")
	OverHorizon   = CreateCodeError(ErrCode_OverHorizon, "TIMER_OVER_HORIZON")
	ClockClosed   = CreateCodeError(ErrCode_ClockClosed, "CLOCK_CLOSED")
	TaskQueueFull = CreateCodeError(ErrCode_TaskQueueFull, "CLOCK_TASK_QUEUE_FULL")
	BadCron       = CreateCodeError(ErrCode_BadCron, "BAD_CRON_EXPRESSION")
	Config        = CreateCodeError(ErrCode_Config, "BAD_CONFIG")
)
