package clock

// Clock 作为 app.Module 运行, 关闭信号到来时退出 tick 循环

func (c *Clock) Name() string {
	return "clock"
}

func (c *Clock) OnInit() error {
	c.sync()
	return nil
}

func (c *Clock) Run(closeSig <-chan struct{}) {
	c.run(closeSig)
}

// OnDestroy 解除所有定时器的链接, 定时器本身仍由各自的持有者管理
func (c *Clock) OnDestroy() {
	c.mgr.Close()
}
