package cli

import (
	"github.com/spf13/cobra"

	"oilwatcher/internal/app"
)

var (
	simulateCode     string
	simulateName     string
	simulatePrevious float64
	simulateCurrent  float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert",
	Short: "模拟一次价格跳变并运行告警检测",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.SimulateOptions{
			Code:     simulateCode,
			Name:     simulateName,
			Previous: simulatePrevious,
			Current:  simulateCurrent,
		}
		return getApp().SimulateAlert(opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateCode, "code", "BRENT_CRUDE_USD", "商品代码")
	simulateCmd.Flags().StringVar(&simulateName, "name", "", "商品名称（默认取 code）")
	simulateCmd.Flags().Float64Var(&simulatePrevious, "previous", 0, "上一次记录的价格")
	simulateCmd.Flags().Float64Var(&simulateCurrent, "current", 0, "当前价格")
}
