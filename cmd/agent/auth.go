package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"homework-agent/internal/app/services"
)

var registerName string

var loginCmd = &cobra.Command{
	Use:   "login <账号> <密码>",
	Short: "登录后会话历史保存在云端",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := services.Auth.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("登录成功，欢迎 %s\n", displayName(resp.UserInfo.Name, resp.UserInfo.Account))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <账号> <密码>",
	Short: "注册新账号",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := services.Auth.Register(cmd.Context(), args[0], args[1], registerName)
		if err != nil {
			return err
		}
		fmt.Printf("注册成功，欢迎 %s\n", displayName(resp.UserInfo.Name, resp.UserInfo.Account))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "注销并清除本地令牌",
	RunE: func(cmd *cobra.Command, args []string) error {
		services.Auth.Logout()
		fmt.Println("已注销")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	registerCmd.Flags().StringVar(&registerName, "name", "", "昵称")
}

func displayName(name, account string) string {
	if name != "" {
		return name
	}
	return account
}
