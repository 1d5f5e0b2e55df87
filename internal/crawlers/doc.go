// Package crawlers 提供Flourish嵌入表格的逐页提取功能
//
// # 概述
//
// 文章页中有多个 .flourish-embed 嵌入块, 数据表在其中一个嵌入块的iframe里,
// 表格分页显示, 只能通过点击"下一页"按钮翻页。本包把一次爬取拆成几个独立步骤,
// 每个步骤只依赖 Renderer 接口。
//
// # 核心组件
//
// ## Renderer
//
// 浏览器抽象: 导航、在当前上下文查询元素、切换iframe、执行点击脚本。
//
//   - RodRenderer 基于go-rod驱动Chrome
//   - SnapshotRenderer 基于goquery回放已保存的HTML, 用于离线回放和测试
//
// ## Loader / Locator / Navigator
//
// Loader 带指数退避重试加载页面; Locator 依次进入每个嵌入块的iframe探测表格,
// 探测后总是切回顶层; Navigator 进入选中的iframe并停留。
//
//	if !NewLoader(r, cfg).Load(ctx, cfg.URL) {
//		return
//	}
//	embed, ok := NewLocator(r, cfg).Locate(ctx)
//
// ## Extractor / Paginator
//
// Extractor 读取当前页的数据行(跳过表头, 缺列或空值的行丢弃);
// Paginator 点击下一页, 区分"已到最后一页"和"重试耗尽"。
//
// ## StaticInspector
//
// 基于Colly的静态预检, 不执行脚本, 只统计嵌入块数量和 data-src。
//
// # 等待策略
//
// 所有等待都可被ctx取消。poll 模式下条件满足即继续, sleep 模式固定等待。
package crawlers
