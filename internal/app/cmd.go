package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はAPIサーバーモードで起動することを示す。
	CommandServe Command = "serve"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck はヘルスチェックを実行することを示す。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"

	// CommandRegister は新規ユーザー登録を行うクライアントコマンド。
	CommandRegister Command = "register"
	// CommandLogin はログインを行うクライアントコマンド。
	CommandLogin Command = "login"
	// CommandLogout はローカルセッションを破棄するクライアントコマンド。
	CommandLogout Command = "logout"
	// CommandWhoami は現在のセッションのユーザーを表示するクライアントコマンド。
	CommandWhoami Command = "whoami"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandServeを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	case "register":
		return CommandRegister
	case "login":
		return CommandLogin
	case "logout":
		return CommandLogout
	case "whoami":
		return CommandWhoami
	default:
		return CommandServe
	}
}

// IsClientCommand はサーバー設定を必要としないクライアントコマンドかどうかを返す。
func (c Command) IsClientCommand() bool {
	switch c {
	case CommandRegister, CommandLogin, CommandLogout, CommandWhoami:
		return true
	default:
		return false
	}
}
