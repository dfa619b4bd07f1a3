package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigRelPath 是相对项目根目录的默认配置路径。
const DefaultConfigRelPath = "configs/conf.yml"

// Resolve 返回最终使用的配置文件路径。
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Resolve(cfgName string) (string, error) {
	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return cfgName, nil
		}
		return filepath.Join(curDir, cfgName), nil
	}
	return findConfigUpward(curDir)
}

func findConfigUpward(startDir string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, DefaultConfigRelPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{StartDir: startDir}
		}
		dir = parent
	}
}

// NotFoundError 表示向上查找配置文件失败。
type NotFoundError struct {
	StartDir string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + DefaultConfigRelPath + " from: " + e.StartDir
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
