package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/richtext/binding"
	"github.com/ByLCY/richtext/images"
	"github.com/ByLCY/richtext/layout"
	"github.com/ByLCY/richtext/renderer"
	canvasrenderer "github.com/ByLCY/richtext/renderer/canvas"
)

// maxPages 限制分页次数，避免配置错误时无限输出空页。
const maxPages = 1000

func main() {
	input := flag.String("in", "examples/demo.txt", "富文本文件路径")
	output := flag.String("out", "output/demo.pdf", "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径（分页时为首页）")
	dataJSON := flag.String("data", "", "绑定到文本的 JSON 数据，覆盖选项文件中的 data")
	configPath := flag.String("config", "", "TOML 选项文件路径")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	var data any = cfg.Data
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			fatal(fmt.Errorf("解析 data JSON 失败: %w", err))
		}
	}

	baseDir := filepath.Dir(*input)
	ropts := cfg.rendererOptions(baseDir)
	ropts.Logger = logger
	r := canvasrenderer.NewRendererWithOptions(ropts)
	cache := images.NewCache(images.WithLogger(logger))

	pages, err := run(*input, *output, *debug, cfg, data, r, cache, logger)
	if err != nil {
		fatal(fmt.Errorf("生成 PDF 失败: %w", err))
	}
	logger.Info("已生成 PDF", "path", *output, "pages", pages)
}

func fatal(err error) {
	slog.Error(err.Error())
	os.Exit(1)
}

// run 串联数据绑定、布局、分页与渲染，返回输出的页数。
func run(inputPath, outputPath, debugPath string, cfg config, data any, r renderer.Backend, imgs layout.ImageSource, logger *slog.Logger) (int, error) {
	if r == nil {
		return 0, fmt.Errorf("renderer 不能为空")
	}
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("无法打开富文本文件 %s: %w", inputPath, err)
	}
	text := string(raw)
	if data != nil {
		text = binding.Interpolate(text, data)
	}

	opts, err := cfg.layoutOptions(r, imgs)
	if err != nil {
		return 0, fmt.Errorf("选项无效: %w", err)
	}
	opts.Logger = logger

	pages, err := paginate(text, opts, cfg.Paginate)
	if err != nil {
		return 0, fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(pages[0], debugPath); err != nil {
			return 0, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(pages...)
	if err != nil {
		return 0, fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return 0, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return len(pages), nil
}

// paginate 排版 text；enabled 且高度受限时，放不下的部分用 BreakHTML 截出并排到下一页。
// 续页不是从硬换行开始时，续页首行不再缩进。
func paginate(text string, opts layout.Options, enabled bool) ([]*layout.Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var pages []*layout.Result
	for {
		res, err := layout.Build(text, opts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, res)
		if !enabled || opts.Height <= 0 {
			return pages, nil
		}
		_, fit := res.CalcHeight()
		if fit >= res.CharCount {
			return pages, nil
		}
		if fit == 0 {
			// 连一行都放不下，继续分页也不会前进。
			logger.Warn("页面高度不足以容纳一行，停止分页", "height", opts.Height, "pages", len(pages))
			return pages, nil
		}
		if len(pages) >= maxPages {
			logger.Warn("分页次数超过上限", "pages", len(pages))
			return pages, nil
		}
		_, rest, hard := layout.BreakHTML(text, fit)
		text = rest
		opts.Paragraph.SkipFirstLineIndent = !hard
	}
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
