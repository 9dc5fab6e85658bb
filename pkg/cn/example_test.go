package cn_test

import (
	"fmt"

	"github.com/vango-dev/vango-cn/pkg/cn"
)

func ExampleCN() {
	fmt.Println(cn.CN("margin:8px color:red", []any{false, "margin-top:4px"}, "color:blue"))
	// Output: margin-top:4px color:blue
}

func ExampleMerger_Merge() {
	m := cn.New(cn.WithCacheSize(100))
	fmt.Println(m.Merge("sm:{color:red;margin:4px}", "sm:{margin:8px;color:blue}"))
	fmt.Println(m.Merge("hover:sm:color:red sm:hover:color:blue"))
	// Output:
	// sm:color:blue sm:margin:8px
	// sm:hover:color:blue
}

func ExampleJoin() {
	fmt.Println(cn.Join([]any{"a", false, []any{"b", nil, "c"}}, 0, "d"))
	// Output: a b c d
}

func ExampleMerge() {
	_, err := cn.Merge(cn.Style{"color": "red"}, "p-4")
	fmt.Println(err != nil)
	// Output: true
}
